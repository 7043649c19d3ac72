package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
	"github.com/valyala/fastjson"
)

// JSONParser handles access logs written with an nginx `escape=json` log_format.
// Recognized keys: remote_addr, time_local, request (or request_method and
// request_uri), status, body_bytes_sent, http_referer, http_user_agent.
type JSONParser struct {
	pool fastjson.ParserPool
	loc  *time.Location
}

func NewJSONParser(loc *time.Location) *JSONParser {
	if loc == nil {
		loc = time.Local
	}
	return &JSONParser{loc: loc}
}

func (p *JSONParser) Parse(line string) (model.LogRecord, bool) {
	line = trimEOL(line)

	fp := p.pool.Get()
	defer p.pool.Put(fp)

	v, err := fp.Parse(line)
	if err != nil || v.Type() != fastjson.TypeObject {
		return model.LogRecord{}, false
	}

	status, ok := intField(v, "status")
	if !ok || !validStatus(status) {
		return model.LogRecord{}, false
	}

	ip := strField(v, "remote_addr")
	ts := strField(v, "time_local")
	if ip == "" || ts == "" {
		return model.LogRecord{}, false
	}

	method, url := strField(v, "request_method"), strField(v, "request_uri")
	if req := strField(v, "request"); req != "" {
		parts := strings.Fields(req)
		if len(parts) < 2 {
			return model.LogRecord{}, false
		}
		method, url = parts[0], parts[1]
	}
	if method == "" || url == "" {
		return model.LogRecord{}, false
	}

	return newRecord(line, fields{
		ip:      ip,
		time:    ts,
		method:  method,
		url:     url,
		status:  status,
		size:    strField(v, "body_bytes_sent"),
		referer: strField(v, "http_referer"),
		agent:   strField(v, "http_user_agent"),
	}, p.loc), true
}

// strField returns a string or number field as text. Missing keys yield "".
func strField(v *fastjson.Value, key string) string {
	f := v.Get(key)
	if f == nil {
		return ""
	}
	switch f.Type() {
	case fastjson.TypeString:
		return string(f.GetStringBytes())
	case fastjson.TypeNumber:
		return f.String()
	default:
		return ""
	}
}

// intField accepts both `"status":200` and `"status":"200"`.
func intField(v *fastjson.Value, key string) (int, bool) {
	f := v.Get(key)
	if f == nil {
		return 0, false
	}
	switch f.Type() {
	case fastjson.TypeNumber:
		n, err := f.Int()
		return n, err == nil
	case fastjson.TypeString:
		n, err := strconv.Atoi(string(f.GetStringBytes()))
		return n, err == nil
	default:
		return 0, false
	}
}
