package fintrack

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// DecodeLedgersAt decodes ledgers found at path in a JSON document.
//
// path is a JSONPath expression, "$" or "" for the whole document. The value
// found can be the array of ledgers itself or a string holding that array,
// as in a dump of the browser storage:
//
//	{"fintrack_ledgers": "[{\"id\":…}]"}
func DecodeLedgersAt(data []byte, path string) ([]*Ledger, error) {
	if path == "" {
		path = "$"
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("cannot parse import document: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot find ledgers at %q: %w", path, err)
	}
	// jsonpath returns a list of matches for wildcard and filter expressions:
	// a single match holding the ledgers is unwrapped.
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		switch jlist[0].(type) {
		case []any, string:
			jval = jlist[0]
		}
	}

	switch v := jval.(type) {
	case string:
		return DecodeLedgers([]byte(v))
	case []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot read ledgers at %q: %w", path, err)
		}
		return DecodeLedgers(raw)
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("value at %q is a %T, want an array of ledgers or a string holding one", path, jval)
	}
}
