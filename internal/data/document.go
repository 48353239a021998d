package data

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/iWorld-y/memo_dashboard/internal/domain"
)

// ParseDocument 把 JSON 对象按原始键顺序归类为 domain.Document
func ParseDocument(raw []byte) (*domain.Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	return &domain.Document{Fields: classifyObject(root)}, nil
}

func classifyObject(obj gjson.Result) []domain.Field {
	var fields []domain.Field
	obj.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, domain.Field{Key: key.String(), Value: classify(value)})
		return true
	})
	return fields
}

func classify(v gjson.Result) domain.Value {
	switch {
	case v.IsObject():
		return domain.Mapping{Fields: classifyObject(v)}
	case v.IsArray():
		elems := v.Array()
		items := make([]domain.Scalar, 0, len(elems))
		for _, e := range elems {
			items = append(items, scalar(e))
		}
		return domain.List{Items: items}
	default:
		return scalar(v)
	}
}

func scalar(v gjson.Result) domain.Scalar {
	switch v.Type {
	case gjson.String:
		return domain.Scalar{Text: v.Str}
	case gjson.Null:
		return domain.Scalar{}
	default:
		// 数字保持原文，避免 12.50 变成 12.5；列表中的对象以 JSON 原文展示
		return domain.Scalar{Text: v.Raw}
	}
}
