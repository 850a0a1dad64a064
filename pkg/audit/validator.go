// Package audit validates classifier payloads into compliance results and
// rolls inventories up into dashboard statistics.
package audit

import (
	"Compliance-Shield/domain"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValidateComplianceResult checks a decoded classifier payload against the
// audit schema and returns a typed result. It stops at the first violation
// and never returns a partially filled result. Values are never coerced: a
// score sent as "70" fails just like a missing one.
func ValidateComplianceResult(raw any) (domain.ComplianceResult, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.ComplianceResult{}, wrongType("$", raw)
	}

	w := walker{obj: obj}
	var res domain.ComplianceResult

	res.ProductName = w.nonEmptyString("productName")
	res.Brand = w.nonEmptyString("brand")
	res.ExpiryDate = w.str("expiryDate")
	res.IsExpired = w.boolean("isExpired")
	res.Ingredients = w.stringSlice("ingredients")
	res.RiskyIngredients = w.riskyIngredients("riskyIngredients")
	res.HealthSensitivity = w.healthSensitivity("healthSensitivity")
	res.SafetyScore = w.num("safetyScore")
	res.Recommendation = w.str("recommendation")
	res.TargetAudience = enum[domain.TargetAudience](&w, "targetAudience")
	res.DetectedRegion = w.str("detectedRegion")
	res.RegulatoryMarkers = w.stringSlice("regulatoryMarkers")
	res.ComplianceViolations = w.stringSlice("complianceViolations")
	res.IsRegulatorilyCompliant = w.boolean("isRegulatorilyCompliant")
	res.DetailedChecklist = w.checklist("detailedChecklist")

	if w.err != nil {
		return domain.ComplianceResult{}, w.err
	}
	return res, nil
}

// walker reads fields out of one JSON object and keeps the first error.
// Every accessor is a no-op once err is set.
type walker struct {
	obj    map[string]any
	prefix string
	err    error
}

func (w *walker) path(key string) string {
	if w.prefix == "" {
		return key
	}
	return w.prefix + "." + key
}

func (w *walker) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *walker) field(key string) (any, bool) {
	if w.err != nil {
		return nil, false
	}
	v, ok := w.obj[key]
	if !ok || v == nil {
		w.fail(&domain.SchemaValidationError{Field: w.path(key), Kind: domain.ViolationMissingField})
		return nil, false
	}
	return v, true
}

func (w *walker) str(key string) string {
	v, ok := w.field(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		w.fail(wrongType(w.path(key), v))
		return ""
	}
	return s
}

func (w *walker) nonEmptyString(key string) string {
	s := w.str(key)
	if w.err == nil && strings.TrimSpace(s) == "" {
		w.fail(&domain.SchemaValidationError{Field: w.path(key), Value: s, Kind: domain.ViolationEmptyValue})
	}
	return s
}

func (w *walker) boolean(key string) bool {
	v, ok := w.field(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		w.fail(wrongType(w.path(key), v))
		return false
	}
	return b
}

func (w *walker) num(key string) float64 {
	v, ok := w.field(key)
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		w.fail(wrongType(w.path(key), v))
		return 0
	}
	return f
}

func (w *walker) object(key string) *walker {
	v, ok := w.field(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		w.fail(wrongType(w.path(key), v))
		return nil
	}
	return &walker{obj: m, prefix: w.path(key)}
}

func (w *walker) slice(key string) ([]any, bool) {
	v, ok := w.field(key)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	if !ok {
		w.fail(wrongType(w.path(key), v))
		return nil, false
	}
	return s, true
}

func (w *walker) stringSlice(key string) []string {
	items, ok := w.slice(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			w.fail(wrongType(fmt.Sprintf("%s[%d]", w.path(key), i), item))
			return nil
		}
		out = append(out, s)
	}
	return out
}

// element returns a walker over the i-th object of a sequence field.
func (w *walker) element(key string, i int, item any) *walker {
	p := fmt.Sprintf("%s[%d]", w.path(key), i)
	m, ok := item.(map[string]any)
	if !ok {
		w.fail(wrongType(p, item))
		return nil
	}
	return &walker{obj: m, prefix: p}
}

// enum reads a string field and requires it to be one of T's literals.
func enum[T interface {
	~string
	Valid() bool
}](w *walker, key string) T {
	var zero T
	s := w.str(key)
	if w.err != nil {
		return zero
	}
	v := T(s)
	if !v.Valid() {
		w.fail(domain.InvalidEnumValue(w.path(key), s))
		return zero
	}
	return v
}

func (w *walker) riskyIngredients(key string) []domain.IngredientAnalysis {
	items, ok := w.slice(key)
	if !ok {
		return nil
	}
	out := make([]domain.IngredientAnalysis, 0, len(items))
	for i, item := range items {
		e := w.element(key, i, item)
		if e == nil {
			return nil
		}
		ing := domain.IngredientAnalysis{
			Name:      e.str("name"),
			RiskLevel: enum[domain.RiskLevel](e, "riskLevel"),
			Reason:    e.str("reason"),
		}
		if e.err != nil {
			w.fail(e.err)
			return nil
		}
		out = append(out, ing)
	}
	return out
}

var healthConditions = []string{"diabetes", "bp", "heart"}

func (w *walker) healthSensitivity(key string) domain.HealthSensitivity {
	h := w.object(key)
	if h == nil {
		return domain.HealthSensitivity{}
	}

	if len(h.obj) != len(healthConditions) {
		w.fail(&domain.SchemaValidationError{Field: h.prefix, Value: keys(h.obj), Kind: domain.ViolationMalformedHealthProfile})
		return domain.HealthSensitivity{}
	}
	for _, c := range healthConditions {
		if _, ok := h.obj[c]; !ok {
			w.fail(&domain.SchemaValidationError{Field: h.path(c), Value: keys(h.obj), Kind: domain.ViolationMalformedHealthProfile})
			return domain.HealthSensitivity{}
		}
	}

	risk := func(c string) domain.HealthRisk {
		r := h.object(c)
		if r == nil {
			return domain.HealthRisk{}
		}
		hr := domain.HealthRisk{
			Risk:   enum[domain.RiskLevel](r, "risk"),
			Reason: r.str("reason"),
		}
		h.fail(r.err)
		return hr
	}

	res := domain.HealthSensitivity{
		Diabetes: risk("diabetes"),
		BP:       risk("bp"),
		Heart:    risk("heart"),
	}
	if h.err != nil {
		w.fail(h.err)
		return domain.HealthSensitivity{}
	}
	return res
}

func (w *walker) checklist(key string) []domain.RegulatoryCheck {
	items, ok := w.slice(key)
	if !ok {
		return nil
	}
	out := make([]domain.RegulatoryCheck, 0, len(items))
	for i, item := range items {
		e := w.element(key, i, item)
		if e == nil {
			return nil
		}
		check := domain.RegulatoryCheck{
			Requirement:  e.str("requirement"),
			Status:       enum[domain.CheckStatus](e, "status"),
			RegulationID: e.str("regulationId"),
			Details:      e.str("details"),
		}
		if e.err != nil {
			w.fail(e.err)
			return nil
		}
		out = append(out, check)
	}
	return out
}

func wrongType(path string, v any) error {
	return &domain.SchemaValidationError{Field: path, Value: v, Kind: domain.ViolationWrongType}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
