package parser

import (
	"fmt"
	"testing"
	"time"
)

// BenchmarkCombinedParser measures combined-format parsing throughput.
func BenchmarkCombinedParser(b *testing.B) {
	p := NewCombinedParser(time.UTC)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(sampleLine)
	}
}

// BenchmarkJSONParser measures JSON access log parsing throughput.
func BenchmarkJSONParser(b *testing.B) {
	p := NewJSONParser(time.UTC)
	line := `{"remote_addr":"10.1.1.1","time_local":"11/Feb/2026:13:43:22 +0000","request":"GET /x HTTP/1.1","status":200,"body_bytes_sent":512,"http_referer":"-","http_user_agent":"curl/8.5.0"}`

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(line)
	}
}

// BenchmarkParserThroughput measures sustained lines/sec over a mixed batch.
func BenchmarkParserThroughput(b *testing.B) {
	p := NewAutoParser(time.UTC)

	lines := make([]string, 1000)
	for i := range lines {
		switch i % 3 {
		case 0:
			lines[i] = fmt.Sprintf(`10.0.0.%d - - [11/Feb/2026:13:43:22 +0000] "GET /page/%d HTTP/1.1" 200 5678 "-" "bench"`, i%255, i)
		case 1:
			lines[i] = fmt.Sprintf(`{"remote_addr":"10.0.0.1","time_local":"11/Feb/2026:13:43:22 +0000","request":"GET /j/%d HTTP/1.1","status":404}`, i)
		case 2:
			lines[i] = fmt.Sprintf("garbage line %d", i)
		}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(lines[i%1000])
	}
}
