package parser

import (
	"strings"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
)

// AutoParser tries JSON for lines that look like objects, then combined format.
type AutoParser struct {
	jsonParser     *JSONParser
	combinedParser *CombinedParser
}

func NewAutoParser(loc *time.Location) *AutoParser {
	return &AutoParser{
		jsonParser:     NewJSONParser(loc),
		combinedParser: NewCombinedParser(loc),
	}
}

func (p *AutoParser) Parse(line string) (model.LogRecord, bool) {
	if strings.HasPrefix(strings.TrimSpace(line), "{") {
		if rec, ok := p.jsonParser.Parse(line); ok {
			return rec, true
		}
	}
	return p.combinedParser.Parse(line)
}
