// Package validate implements declarative payload validation as an
// explicit rule table: each operation declares an ordered list of fields,
// each field an ordered list of rules, and one generic engine evaluates
// them against the raw decoded JSON object. All violations across all
// fields are collected — declaration order of fields, then rule order
// within a field — rather than failing on the first.
//
// Predicates are go-playground/validator tags, extended with the custom
// validations person_name and password_complexity.
package validate

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/userhub/identity-api/internal/core/domain"
)

// Kind is the expected JSON type of a field.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

// Rule pairs a validator tag with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Field declares one payload field: its type, normalization and rules.
// Normalization runs before any rule is evaluated and its result is what
// gets stored, so e.g. length checks see the trimmed value.
type Field struct {
	Name      string
	Kind      Kind
	Normalize func(string) string
	Rules     []Rule
}

// RuleSet is the full declared schema for one operation. Unknown keys in
// the input are violations: the schema is strict.
type RuleSet struct {
	Fields []Field
}

// allowedSymbols is the fixed symbol set accepted by password_complexity.
const allowedSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?`~"

var namePattern = regexp.MustCompile(`^[\p{L} '-]+$`)

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New()
	mustRegister(v, "person_name", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "password_complexity", func(fl validator.FieldLevel) bool {
		var lower, upper, digit, symbol bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			case strings.ContainsRune(allowedSymbols, r):
				symbol = true
			}
		}
		return lower && upper && digit && symbol
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validate: register " + tag + ": " + err.Error())
	}
}

// Eval runs the rule set against the raw payload. It returns the
// normalized values keyed by field name and the ordered violation
// messages; the values map is only meaningful when messages is empty.
func (rs RuleSet) Eval(raw map[string]any) (map[string]any, []string) {
	var msgs []string
	values := make(map[string]any, len(rs.Fields))
	known := make(map[string]struct{}, len(rs.Fields))

	for _, f := range rs.Fields {
		known[f.Name] = struct{}{}

		val, present := raw[f.Name]
		if !present || val == nil {
			msgs = append(msgs, f.Name+" is required")
			continue
		}

		switch f.Kind {
		case KindString:
			s, ok := val.(string)
			if !ok {
				msgs = append(msgs, f.Name+" must be a string")
				continue
			}
			if f.Normalize != nil {
				s = f.Normalize(s)
			}
			if s == "" {
				msgs = append(msgs, f.Name+" is required")
				continue
			}
			for _, r := range f.Rules {
				if engine.Var(s, r.Tag) != nil {
					msgs = append(msgs, r.Message)
				}
			}
			values[f.Name] = s

		case KindInt:
			n, ok := toInt(val)
			if !ok {
				msgs = append(msgs, f.Name+" must be an integer")
				continue
			}
			for _, r := range f.Rules {
				if engine.Var(n, r.Tag) != nil {
					msgs = append(msgs, r.Message)
				}
			}
			values[f.Name] = n
		}
	}

	// Unknown keys are violations. Sorted so the order is deterministic
	// despite map iteration.
	var unknown []string
	for k := range raw {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		msgs = append(msgs, "unexpected field: "+k)
	}

	return values, msgs
}

// toInt accepts a JSON number with no fractional part, a native int, or a
// numeric-looking string. No other coercion is performed.
func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RegistrationRules is the declared schema for POST /users/register.
var RegistrationRules = RuleSet{
	Fields: []Field{
		{
			Name:      "name",
			Kind:      KindString,
			Normalize: strings.TrimSpace,
			Rules: []Rule{
				{Tag: "min=2,max=50", Message: "name must be between 2 and 50 characters"},
				{Tag: "person_name", Message: "name may only contain letters, spaces, hyphens and apostrophes"},
			},
		},
		{
			Name:      "email",
			Kind:      KindString,
			Normalize: normalizeEmail,
			Rules: []Rule{
				{Tag: "email", Message: "email must be a valid email address"},
			},
		},
		{
			// Passwords are never trimmed or case-folded.
			Name: "password",
			Kind: KindString,
			Rules: []Rule{
				{Tag: "min=8,max=128", Message: "password must be between 8 and 128 characters"},
				{Tag: "password_complexity", Message: "password must contain a lowercase letter, an uppercase letter, a digit and a symbol"},
			},
		},
		{
			Name: "age",
			Kind: KindInt,
			Rules: []Rule{
				{Tag: "gte=13,lte=120", Message: "age must be between 13 and 120"},
			},
		},
	},
}

// LoginRules is the declared schema for POST /auth/login. Password
// complexity is enforced only at registration; login just requires a
// non-empty string.
var LoginRules = RuleSet{
	Fields: []Field{
		{
			Name:      "email",
			Kind:      KindString,
			Normalize: normalizeEmail,
			Rules: []Rule{
				{Tag: "email", Message: "email must be a valid email address"},
			},
		},
		{
			Name: "password",
			Kind: KindString,
		},
	},
}

// RegistrationData is the normalized registration payload.
type RegistrationData struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// LoginData is the normalized login payload.
type LoginData struct {
	Email    string
	Password string
}

// Registration validates raw against RegistrationRules and returns the
// normalized payload, or a domain.ValidationError carrying every
// violation.
func Registration(raw map[string]any) (*RegistrationData, error) {
	values, msgs := RegistrationRules.Eval(raw)
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}
	return &RegistrationData{
		Name:     values["name"].(string),
		Email:    values["email"].(string),
		Password: values["password"].(string),
		Age:      values["age"].(int),
	}, nil
}

// Login validates raw against LoginRules.
func Login(raw map[string]any) (*LoginData, error) {
	values, msgs := LoginRules.Eval(raw)
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}
	return &LoginData{
		Email:    values["email"].(string),
		Password: values["password"].(string),
	}, nil
}
