package domain

// Section 结果页的一个展示块
type Section interface {
	isSection()
}

// Entry 一行键值
type Entry struct {
	Label string
	Value string
}

// Group 嵌套映射中的一个子块
type Group struct {
	Label   string
	Entries []Entry
}

type ScalarSection struct {
	Label string
	Value string
}

type ListSection struct {
	Label string
	Items []string
}

type FlatMapSection struct {
	Label   string
	Entries []Entry
}

// NestedMapSection 外层每个键一个子块；混合映射中的标量成员放在 Entries
type NestedMapSection struct {
	Label   string
	Entries []Entry
	Groups  []Group
}

// ImageSection 图表，URL 与 Notice 二选一
type ImageSection struct {
	Label   string
	Caption string
	URL     string
	Notice  string
}

func (ScalarSection) isSection()    {}
func (ListSection) isSection()      {}
func (FlatMapSection) isSection()   {}
func (NestedMapSection) isSection() {}
func (ImageSection) isSection()     {}

// Result 结果页视图
type Result struct {
	Heading  string
	Sections []Section
}
