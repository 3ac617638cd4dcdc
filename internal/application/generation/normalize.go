package generation

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"infoprod-ai-api/internal/domain/entity"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/metrics"
)

// FallbackSubNiches 模型输出结构不符合预期时返回的固定列表
func FallbackSubNiches() []entity.SubNiche {
	return []entity.SubNiche{
		{
			Title:           "Subnicho 1",
			Description:     "Descrição do subnicho 1",
			MonthlySearches: 1000,
			SaleProbability: entity.SaleProbabilityMedium,
		},
		{
			Title:           "Subnicho 2",
			Description:     "Descrição do subnicho 2",
			MonthlySearches: 2000,
			SaleProbability: entity.SaleProbabilityHigh,
		},
	}
}

// NormalizeSubNiches 解析子细分市场输出。
//
//   - 空内容返回 EmptyResponseError
//   - 不是合法 JSON 返回 ParseError
//   - 顶层为数组，或对象带数组字段 subnichos，按元素转换后返回
//   - 其它结构记录告警并返回 FallbackSubNiches
func NormalizeSubNiches(ctx context.Context, raw string) ([]entity.SubNiche, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, apperrors.NewEmptyResponseError()
	}

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, apperrors.NewParseError(err)
	}

	var items []any
	switch v := parsed.(type) {
	case []any:
		items = v
	case map[string]any:
		if arr, ok := v["subnichos"].([]any); ok {
			items = arr
		}
	}

	if items == nil {
		logger.Warn(ctx, "unexpected subniche response shape, using fallback",
			"content_preview", preview(content, 200),
		)
		metrics.SubNicheFallbackTotal.WithLabelValues("normalizer", "").Inc()
		return FallbackSubNiches(), nil
	}

	out := make([]entity.SubNiche, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, subNicheFromMap(obj))
	}
	return out, nil
}

// NormalizeProductDetails 解析产品详情输出，失败不做降级
func NormalizeProductDetails(raw string) (*entity.ProductDetails, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, apperrors.NewEmptyResponseError()
	}

	var details entity.ProductDetails
	if err := json.Unmarshal([]byte(content), &details); err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if details.FeaturesBenefits == nil {
		details.FeaturesBenefits = []string{}
	}
	return &details, nil
}

// NormalizeText 标题/描述/章节正文：去掉首尾空白，空内容原样接受
func NormalizeText(raw string) string {
	return strings.TrimSpace(raw)
}

func subNicheFromMap(m map[string]any) entity.SubNiche {
	return entity.SubNiche{
		Title:           stringField(m["titulo"]),
		Description:     stringField(m["descricao"]),
		MonthlySearches: searchVolume(m["buscasMensais"]),
		SaleProbability: saleProbability(m["probabilidadeVenda"]),
	}
}

func stringField(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(s)
		return string(b)
	}
}

// searchVolume 容忍 "22.000"、"22,000"、22000.0 等写法，负数与无法识别的值记为 0
func searchVolume(v any) int {
	switch n := v.(type) {
	case float64:
		if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(math.Round(n))
	case string:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, n)
		if digits == "" {
			return 0
		}
		i, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func saleProbability(v any) entity.SaleProbability {
	s, _ := v.(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alta", "high", "alto":
		return entity.SaleProbabilityHigh
	case "baixa", "low", "baixo":
		return entity.SaleProbabilityLow
	default:
		return entity.SaleProbabilityMedium
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
