package domain

// Value 响应字段值：Scalar、List 或 Mapping 之一
type Value interface {
	isValue()
}

// Scalar 字符串、数字、布尔或 null 的文本形式
type Scalar struct {
	Text string
}

// List 有序的原始值序列
type List struct {
	Items []Scalar
}

// Mapping 保持原始键顺序的对象
type Mapping struct {
	Fields []Field
}

func (Scalar) isValue()  {}
func (List) isValue()    {}
func (Mapping) isValue() {}

// Field 一个键值对
type Field struct {
	Key   string
	Value Value
}

// Document 后端成功响应，按 JSON 中的顺序保存
type Document struct {
	Fields []Field
}

// Empty 是否没有任何字段
func (d *Document) Empty() bool {
	return d == nil || len(d.Fields) == 0
}

// Lookup 按键查找顶层字段
func (d *Document) Lookup(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Text 顶层标量字段的文本
func (d *Document) Text(key string) string {
	v, ok := d.Lookup(key)
	if !ok {
		return ""
	}
	if s, ok := v.(Scalar); ok {
		return s.Text
	}
	return ""
}

// Lookup 按键查找映射成员
func (m Mapping) Lookup(key string) (Value, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Nested 是否所有成员都是映射
func (m Mapping) Nested() bool {
	if len(m.Fields) == 0 {
		return false
	}
	for _, f := range m.Fields {
		if _, ok := f.Value.(Mapping); !ok {
			return false
		}
	}
	return true
}
