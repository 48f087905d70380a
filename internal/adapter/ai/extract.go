// Package ai holds the model-output handling shared by inference adapters.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

var fitStringKeys = []string{"verdict", "headline", "opening", "transfers", "recommendation"}

var gapStringKeys = []string{"requirement", "gap_title", "explanation"}

// ExtractJSONObject returns the text between the first '{' and the last '}'.
// Code fences and prose around the object are dropped this way.
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// ExtractFitAnalysis parses a fit verdict out of raw model text.
// It returns ErrParse when no valid JSON object is found and ErrSchemaInvalid
// when the object does not match the verdict contract.
func ExtractFitAnalysis(raw string) (domain.FitAnalysis, error) {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return domain.FitAnalysis{}, fmt.Errorf("%w: no JSON object in model output", domain.ErrParse)
	}
	if !gjson.Valid(obj) {
		return domain.FitAnalysis{}, fmt.Errorf("%w: model output is not valid JSON", domain.ErrParse)
	}
	if err := checkFitSchema(gjson.Parse(obj)); err != nil {
		return domain.FitAnalysis{}, err
	}

	var out domain.FitAnalysis
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return domain.FitAnalysis{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if out.Gaps == nil {
		out.Gaps = []domain.FitGap{}
	}
	return out, nil
}

func checkFitSchema(root gjson.Result) error {
	if !root.IsObject() {
		return fmt.Errorf("%w: top level is not an object", domain.ErrSchemaInvalid)
	}
	for _, k := range fitStringKeys {
		if v := root.Get(k); v.Type != gjson.String {
			return fmt.Errorf("%w: %q must be a string", domain.ErrSchemaInvalid, k)
		}
	}
	if v := domain.Verdict(root.Get("verdict").String()); !v.Valid() {
		return fmt.Errorf("%w: unknown verdict %q", domain.ErrSchemaInvalid, string(v))
	}
	gaps := root.Get("gaps")
	if !gaps.IsArray() {
		return fmt.Errorf("%w: \"gaps\" must be an array", domain.ErrSchemaInvalid)
	}
	for i, g := range gaps.Array() {
		if !g.IsObject() {
			return fmt.Errorf("%w: gaps[%d] is not an object", domain.ErrSchemaInvalid, i)
		}
		for _, k := range gapStringKeys {
			if g.Get(k).Type != gjson.String {
				return fmt.Errorf("%w: gaps[%d].%s must be a string", domain.ErrSchemaInvalid, i, k)
			}
		}
	}
	return nil
}
