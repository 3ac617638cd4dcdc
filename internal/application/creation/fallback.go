package creation

import "infoprod-ai-api/internal/domain/entity"

var nicheFallbacks = map[entity.Niche][]entity.SubNiche{
	entity.NicheMarketingDigital: {
		{Title: "Marketing de Conteúdo", Description: "Estratégias para criar e distribuir conteúdo relevante e atrair clientes.", MonthlySearches: 22000, SaleProbability: entity.SaleProbabilityHigh},
		{Title: "Tráfego Pago", Description: "Anúncios em plataformas como Google e Meta para gerar vendas rapidamente.", MonthlySearches: 18000, SaleProbability: entity.SaleProbabilityHigh},
		{Title: "SEO", Description: "Otimização de sites para ganhar posições nos mecanismos de busca.", MonthlySearches: 27000, SaleProbability: entity.SaleProbabilityMedium},
	},
	entity.NicheSaudeBemEstar: {
		{Title: "Emagrecimento Saudável", Description: "Métodos sustentáveis para perder peso sem comprometer a saúde.", MonthlySearches: 33000, SaleProbability: entity.SaleProbabilityHigh},
		{Title: "Yoga e Meditação", Description: "Práticas para reduzir o estresse e melhorar o bem-estar mental.", MonthlySearches: 15000, SaleProbability: entity.SaleProbabilityMedium},
	},
	entity.NicheFinancas: {
		{Title: "Investimentos para Iniciantes", Description: "Primeiros passos para investir com segurança e construir patrimônio.", MonthlySearches: 29000, SaleProbability: entity.SaleProbabilityHigh},
		{Title: "Independência Financeira", Description: "Planejamento para viver de renda passiva no longo prazo.", MonthlySearches: 19000, SaleProbability: entity.SaleProbabilityHigh},
	},
}

var defaultFallback = []entity.SubNiche{
	{Title: "Subnicho Popular", Description: "Tema com alta procura e boa aceitação do público.", MonthlySearches: 15000, SaleProbability: entity.SaleProbabilityHigh},
	{Title: "Nicho Emergente", Description: "Tema em crescimento com pouca concorrência.", MonthlySearches: 8000, SaleProbability: entity.SaleProbabilityMedium},
}

// FallbackForNiche 编排层的静态兜底列表，按细分市场区分
func FallbackForNiche(niche entity.Niche) []entity.SubNiche {
	src, ok := nicheFallbacks[niche]
	if !ok {
		src = defaultFallback
	}
	out := make([]entity.SubNiche, len(src))
	copy(out, src)
	return out
}
