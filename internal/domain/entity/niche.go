// Package entity 定义领域实体
package entity

// Niche 顶层细分市场标识
type Niche string

const (
	NicheMarketingDigital       Niche = "marketing-digital"
	NicheSaudeBemEstar          Niche = "saude-bem-estar"
	NicheFinancas               Niche = "financas"
	NicheDesenvolvimentoPessoal Niche = "desenvolvimento-pessoal"
	NicheEcommerce              Niche = "ecommerce"
)

// NicheSelection 用户选定的细分市场（只存在于会话/请求范围）
type NicheSelection struct {
	ID    Niche  `json:"id"`
	Label string `json:"label"`
}

var nicheCatalog = []NicheSelection{
	{ID: NicheMarketingDigital, Label: "Marketing Digital"},
	{ID: NicheSaudeBemEstar, Label: "Saúde e Bem-estar"},
	{ID: NicheFinancas, Label: "Finanças Pessoais"},
	{ID: NicheDesenvolvimentoPessoal, Label: "Desenvolvimento Pessoal"},
	{ID: NicheEcommerce, Label: "E-commerce"},
}

// Niches 返回内置的细分市场目录
func Niches() []NicheSelection {
	out := make([]NicheSelection, len(nicheCatalog))
	copy(out, nicheCatalog)
	return out
}

// SelectNiche 根据标识构造选择；未知标识以自身作为显示名
func SelectNiche(id string) NicheSelection {
	for _, n := range nicheCatalog {
		if string(n.ID) == id {
			return n
		}
	}
	return NicheSelection{ID: Niche(id), Label: id}
}

// SaleProbability 销售概率档位
type SaleProbability string

const (
	SaleProbabilityHigh   SaleProbability = "Alta"
	SaleProbabilityMedium SaleProbability = "Média"
	SaleProbabilityLow    SaleProbability = "Baixa"
)

// Valid 是否为合法档位
func (p SaleProbability) Valid() bool {
	switch p {
	case SaleProbabilityHigh, SaleProbabilityMedium, SaleProbabilityLow:
		return true
	}
	return false
}

// SubNiche 模型生成的候选子细分市场，不直接持久化
type SubNiche struct {
	Title           string          `json:"titulo"`
	Description     string          `json:"descricao"`
	MonthlySearches int             `json:"buscasMensais"`
	SaleProbability SaleProbability `json:"probabilidadeVenda"`
}

// ProductDetails 模型生成的产品详情，是 Product 的种子
type ProductDetails struct {
	Name             string   `json:"nome"`
	Description      string   `json:"descricao"`
	TargetAudience   string   `json:"publicoAlvo"`
	FeaturesBenefits []string `json:"caracteristicasBeneficios"`
}
