package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"sales-analytics/internal/domain"
)

// readRequestFile reads one request document from path, or from stdin when
// path is "-".
func readRequestFile(path string, stdin io.Reader) (domain.AnalyticsRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path is caller-controlled
	}
	if err != nil {
		return domain.AnalyticsRequest{}, fmt.Errorf("read %s: %w", path, err)
	}

	req, err := decodeRequest(data, filepath.Ext(path))
	if err != nil {
		return domain.AnalyticsRequest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return req, nil
}

// decodeRequest decodes a JSON or YAML request document. ext selects the
// format; without a known extension a leading '{' means JSON.
func decodeRequest(data []byte, ext string) (domain.AnalyticsRequest, error) {
	var req domain.AnalyticsRequest

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return req, errors.New("request document is empty")
	}

	isJSON := strings.EqualFold(ext, ".json")
	if !isJSON && !strings.EqualFold(ext, ".yaml") && !strings.EqualFold(ext, ".yml") {
		isJSON = trimmed[0] == '{'
	}

	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return req, fmt.Errorf("decode JSON: %w", err)
		}
		return req, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(trimmed))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode YAML: %w", err)
	}
	return req, nil
}

// parseFilterFlag parses campo:operador:valor. List operators take
// comma-separated values.
func parseFilterFlag(s string) (domain.Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return domain.Filter{}, fmt.Errorf("invalid filter %q: expected campo:operador:valor", s)
	}

	f := domain.Filter{
		Field:    domain.Dimension(strings.TrimSpace(parts[0])),
		Operator: domain.Operator(strings.ToLower(strings.TrimSpace(parts[1]))),
	}
	switch f.Operator {
	case domain.OpIn, domain.OpNotIn, domain.OpBetween:
		var values []interface{}
		for _, v := range strings.Split(parts[2], ",") {
			values = append(values, strings.TrimSpace(v))
		}
		f.Value = values
	default:
		f.Value = parts[2]
	}
	return f, nil
}

// formatArg renders a bound argument for table output.
func formatArg(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
