package prompt

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	wfmodel "infoprod-ai-api/internal/workflow/model"
)

// ContentType 生成内容类型，用于日志与指标
type ContentType string

const (
	ContentSubNiches      ContentType = "subniches"
	ContentProductDetails ContentType = "product_details"
	ContentTitle          ContentType = "title"
	ContentDescription    ContentType = "description"
	ContentChapter        ContentType = "chapter"
	ContentStream         ContentType = "content_stream"
	ContentConnectivity   ContentType = "connectivity"
)

const (
	DefaultSubNicheCount = 6
	MinFeatures          = 5
	TitleOptions         = 5
	DescriptionParagraph = 3
	ChapterMinWords      = 800
)

// Params 每种内容类型固定的生成参数
type Params struct {
	Temperature  *float32
	MaxTokens    int
	JSONResponse bool
}

// Request 模板渲染结果：system + user 消息及生成参数
type Request struct {
	ID          PromptID
	ContentType ContentType
	Messages    []*schema.Message
	Params      Params
}

// System 返回 system 消息内容，没有时为空串
func (r *Request) System() string {
	for _, m := range r.Messages {
		if m.Role == schema.System {
			return m.Content
		}
	}
	return ""
}

// User 返回 user 消息内容
func (r *Request) User() string {
	for _, m := range r.Messages {
		if m.Role == schema.User {
			return m.Content
		}
	}
	return ""
}

var (
	paramsSubNiches      = Params{Temperature: f32(0.7), MaxTokens: 1000, JSONResponse: true}
	paramsProductDetails = Params{Temperature: f32(0.7), MaxTokens: 1000, JSONResponse: true}
	paramsTitle          = Params{Temperature: f32(0.8), MaxTokens: 250}
	paramsDescription    = Params{Temperature: f32(0.7), MaxTokens: 500}
	paramsChapter        = Params{Temperature: f32(0.7), MaxTokens: 2000}
	paramsContentStream  = Params{Temperature: f32(0.7), MaxTokens: 1000}
	paramsConnectivity   = Params{MaxTokens: 10}
)

// BuildSubNichesMessages 子细分市场提示词
func BuildSubNichesMessages(in wfmodel.SubNichesInput) (*Request, error) {
	count := in.Count
	if count <= 0 {
		count = DefaultSubNicheCount
	}
	return render(PromptSubNichesV1, ContentSubNiches, paramsSubNiches, map[string]any{
		"niche": strings.TrimSpace(in.Niche),
		"count": count,
	})
}

// BuildProductDetailsMessages 产品详情提示词
func BuildProductDetailsMessages(in wfmodel.ProductDetailsInput) (*Request, error) {
	return render(PromptProductDetailsV1, ContentProductDetails, paramsProductDetails, map[string]any{
		"niche":        strings.TrimSpace(in.Niche),
		"subniche":     strings.TrimSpace(in.SubNiche),
		"min_features": MinFeatures,
	})
}

// BuildTitleMessages 标题提示词
func BuildTitleMessages(in wfmodel.TitleInput) (*Request, error) {
	return render(PromptTitleV1, ContentTitle, paramsTitle, map[string]any{
		"niche":    strings.TrimSpace(in.Niche),
		"subniche": strings.TrimSpace(in.SubNiche),
		"options":  TitleOptions,
	})
}

// BuildDescriptionMessages 描述提示词
func BuildDescriptionMessages(in wfmodel.DescriptionInput) (*Request, error) {
	return render(PromptDescriptionV1, ContentDescription, paramsDescription, map[string]any{
		"title":      strings.TrimSpace(in.Title),
		"niche":      strings.TrimSpace(in.Niche),
		"paragraphs": DescriptionParagraph,
	})
}

// BuildChapterMessages 章节提示词，角色只影响注入的说明文字
func BuildChapterMessages(in wfmodel.ChapterInput) (*Request, error) {
	role := ClassifyChapterRole(in.ChapterID)
	return render(PromptChapterV1, ContentChapter, paramsChapter, map[string]any{
		"ebook_title":       strings.TrimSpace(in.EbookTitle),
		"ebook_description": strings.TrimSpace(in.EbookDescription),
		"chapter_title":     strings.TrimSpace(in.ChapterTitle),
		"role_label":        role.Label(),
		"role_instruction":  role.Instruction(),
		"min_words":         ChapterMinWords,
	})
}

// BuildContentStreamMessages 自由内容流式生成提示词
func BuildContentStreamMessages(in wfmodel.ContentStreamInput) (*Request, error) {
	return render(PromptContentStreamV1, ContentStream, paramsContentStream, map[string]any{
		"prompt": strings.TrimSpace(in.Prompt),
	})
}

// BuildConnectivityMessages 连通性检查提示词
func BuildConnectivityMessages() (*Request, error) {
	return render(PromptConnectivityV1, ContentConnectivity, paramsConnectivity, map[string]any{})
}

func render(id PromptID, ct ContentType, params Params, vars map[string]any) (*Request, error) {
	tpl, err := chatTemplate(id)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(context.Background(), vars)
	if err != nil {
		return nil, err
	}
	return &Request{ID: id, ContentType: ct, Messages: msgs, Params: params}, nil
}

func f32(v float32) *float32 {
	return &v
}
