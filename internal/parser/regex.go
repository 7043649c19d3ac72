package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
)

// RegexParser uses a user-supplied regex with named capture groups.
// Recognized groups: ip, time, method, url, status, size, referer, agent.
// The status group is required.
type RegexParser struct {
	re  *regexp.Regexp
	loc *time.Location
	idx map[string]int
}

func NewRegexParser(pattern string, loc *time.Location) (*RegexParser, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	if re.SubexpIndex("status") < 0 {
		return nil, fmt.Errorf("regex pattern has no (?P<status>...) group")
	}
	if loc == nil {
		loc = time.Local
	}

	idx := make(map[string]int)
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" {
			idx[name] = i
		}
	}
	return &RegexParser{re: re, loc: loc, idx: idx}, nil
}

func (p *RegexParser) Parse(line string) (model.LogRecord, bool) {
	line = trimEOL(line)

	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return model.LogRecord{}, false
	}

	group := func(name string) string {
		if i, ok := p.idx[name]; ok {
			return m[i]
		}
		return ""
	}

	status, err := strconv.Atoi(group("status"))
	if err != nil || !validStatus(status) {
		return model.LogRecord{}, false
	}

	return newRecord(line, fields{
		ip:      group("ip"),
		time:    group("time"),
		method:  group("method"),
		url:     group("url"),
		status:  status,
		size:    group("size"),
		referer: group("referer"),
		agent:   group("agent"),
	}, p.loc), true
}
