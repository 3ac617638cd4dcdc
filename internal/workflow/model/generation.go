package model

// SubNichesInput 子细分市场生成输入
type SubNichesInput struct {
	// Niche 细分市场显示名（提示词中使用）
	Niche string
	Count int
}

// ProductDetailsInput 产品详情生成输入
type ProductDetailsInput struct {
	Niche    string
	SubNiche string
}

// TitleInput 标题生成输入
type TitleInput struct {
	Niche    string
	SubNiche string
}

// DescriptionInput 描述生成输入
type DescriptionInput struct {
	Title string
	Niche string
}

// ChapterInput 电子书章节生成输入
type ChapterInput struct {
	EbookTitle       string
	EbookDescription string
	ChapterID        string
	ChapterTitle     string
}

// ContentStreamInput 自由内容流式生成输入
type ContentStreamInput struct {
	Prompt string
}
