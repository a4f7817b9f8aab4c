package formvalidator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk override format:
//
//	required_message: "Required"
//	fields:
//	  - name: phone
//	    pattern: '^\d{10}$'
//	    message: "Please enter a 10 digit phone number"
//	  - name: company        # new field, required only
type rulesFile struct {
	RequiredMessage string          `yaml:"required_message"`
	Fields          []fieldOverride `yaml:"fields"`
}

type fieldOverride struct {
	Name    string  `yaml:"name"`
	Pattern *string `yaml:"pattern"`
	Message *string `yaml:"message"`
}

// LoadRules reads YAML overrides and merges them onto base. Fields already in
// base keep their pattern or message when the override omits it; an explicit
// empty pattern makes the field required-only. Unknown fields are appended in
// file order. base is not modified.
func LoadRules(r io.Reader, base *RuleSet) (*RuleSet, error) {
	var file rulesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	if base == nil {
		base = MustRuleSet("")
	}

	merged := base.Rules()
	index := make(map[string]int, len(merged))
	for i, rule := range merged {
		index[rule.Name] = i
	}

	for _, o := range file.Fields {
		rule := FieldRule{Name: o.Name}
		i, exists := index[o.Name]
		if exists {
			rule = merged[i]
		}

		if o.Pattern != nil {
			rule.Pattern = nil
			if *o.Pattern != "" {
				re, err := regexp.Compile(*o.Pattern)
				if err != nil {
					return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidRules, o.Name, err)
				}
				rule.Pattern = re
			}
		}
		if o.Message != nil {
			rule.Message = *o.Message
		}

		if exists {
			merged[i] = rule
			continue
		}
		index[o.Name] = len(merged)
		merged = append(merged, rule)
	}

	required := base.RequiredMessage()
	if file.RequiredMessage != "" {
		required = file.RequiredMessage
	}

	return NewRuleSet(required, merged...)
}

// LoadRulesFile is LoadRules over the file at path.
func LoadRulesFile(path string, base *RuleSet) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	return LoadRules(f, base)
}
