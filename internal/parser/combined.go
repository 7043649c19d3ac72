package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
)

// combinedPattern matches the nginx/Apache combined format:
// host ident user [time] "METHOD target proto" status bytes "referer" "agent"
var combinedPattern = regexp.MustCompile(`(\S+) \S+ \S+ \[([^\]]+)\] "(\S+) (\S+) [^"]+" (\d{3}) (\d+) "([^"]*)" "([^"]*)"`)

// CombinedParser handles combined log format lines.
type CombinedParser struct {
	re  *regexp.Regexp
	loc *time.Location
}

func NewCombinedParser(loc *time.Location) *CombinedParser {
	if loc == nil {
		loc = time.Local
	}
	return &CombinedParser{re: combinedPattern, loc: loc}
}

func (p *CombinedParser) Parse(line string) (model.LogRecord, bool) {
	line = trimEOL(line)

	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return model.LogRecord{}, false
	}

	status, err := strconv.Atoi(m[5])
	if err != nil || !validStatus(status) {
		return model.LogRecord{}, false
	}

	return newRecord(line, fields{
		ip:      m[1],
		time:    m[2],
		method:  m[3],
		url:     m[4],
		status:  status,
		size:    m[6],
		referer: m[7],
		agent:   m[8],
	}, p.loc), true
}
