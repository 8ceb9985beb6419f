package notion

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"timerelay/internal/records"
)

const dateOnly = "2006-01-02"

type (
	page struct {
		ID          string                  `json:"id"`
		CreatedTime time.Time               `json:"created_time"`
		Properties  map[string]pageProperty `json:"properties"`
	}

	pageProperty struct {
		Type     string     `json:"type"`
		Title    []richText `json:"title"`
		RichText []richText `json:"rich_text"`
		Relation []pageRef  `json:"relation"`
		Number   *float64   `json:"number"`
		Date     *dateRange `json:"date"`
	}

	richText struct {
		PlainText string    `json:"plain_text,omitempty"`
		Text      *textBody `json:"text,omitempty"`
	}

	textBody struct {
		Content string `json:"content"`
	}

	pageRef struct {
		ID string `json:"id"`
	}

	dateRange struct {
		Start string `json:"start"`
	}
)

func decodePage(raw []byte) (records.Record, error) {
	var p page
	if err := json.Unmarshal(raw, &p); err != nil {
		return records.Record{}, err
	}
	rec := records.Record{
		ID:          p.ID,
		CreatedTime: p.CreatedTime,
		Properties:  make(map[string]records.Value, len(p.Properties)),
		Raw:         append(json.RawMessage(nil), raw...),
	}
	for name, prop := range p.Properties {
		switch prop.Type {
		case "title":
			rec.Properties[name] = records.TitleValue(joinText(prop.Title))
		case "rich_text":
			rec.Properties[name] = records.TitleValue(joinText(prop.RichText))
		case "relation":
			ids := make([]string, 0, len(prop.Relation))
			for _, r := range prop.Relation {
				ids = append(ids, r.ID)
			}
			rec.Properties[name] = records.RelationValue(ids)
		case "number":
			if prop.Number != nil {
				rec.Properties[name] = records.NumberValue(*prop.Number)
			}
		case "date":
			if prop.Date != nil && prop.Date.Start != "" {
				t, err := parseDate(prop.Date.Start)
				if err != nil {
					return records.Record{}, fmt.Errorf("property %q: %w", name, err)
				}
				rec.Properties[name] = records.DateValue(t)
			}
		}
	}
	return rec, nil
}

func joinText(parts []richText) string {
	var sb strings.Builder
	for _, p := range parts {
		if p.PlainText != "" {
			sb.WriteString(p.PlainText)
		} else if p.Text != nil {
			sb.WriteString(p.Text.Content)
		}
	}
	return sb.String()
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateOnly, s)
}

func encodeValue(v records.Value) (any, error) {
	switch val := v.(type) {
	case records.TitleValue:
		return map[string]any{"title": []richText{{Text: &textBody{Content: string(val)}}}}, nil
	case records.RelationValue:
		refs := make([]pageRef, 0, len(val))
		for _, id := range val {
			refs = append(refs, pageRef{ID: id})
		}
		return map[string]any{"relation": refs}, nil
	case records.NumberValue:
		return map[string]any{"number": float64(val)}, nil
	case records.DateValue:
		return map[string]any{"date": dateRange{Start: time.Time(val).Format(time.RFC3339)}}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func encodeFilter(f records.Filter) (map[string]any, error) {
	switch flt := f.(type) {
	case records.RelationContains:
		return map[string]any{
			"property": flt.Property,
			"relation": map[string]string{"contains": flt.ID},
		}, nil
	case records.DateOnOrAfter:
		return map[string]any{
			"property": flt.Property,
			"date":     map[string]string{"on_or_after": flt.Date.Format(time.RFC3339)},
		}, nil
	case records.And:
		return encodeCompound("and", flt)
	case records.Or:
		return encodeCompound("or", flt)
	default:
		return nil, fmt.Errorf("unsupported filter type %T", f)
	}
}

func encodeCompound(op string, subs []records.Filter) (map[string]any, error) {
	out := make([]map[string]any, 0, len(subs))
	for _, sub := range subs {
		enc, err := encodeFilter(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return map[string]any{op: out}, nil
}
