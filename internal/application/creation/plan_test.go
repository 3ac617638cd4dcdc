package creation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/application/creation"
	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/internal/domain/entity"
)

var _ = Describe("ParsePlannedChapters", func() {
	It("should parse the default plan into five chapters", func() {
		plan := creation.ParsePlannedChapters(config.DefaultPlannedChapters)
		Expect(plan).To(HaveLen(5))
		Expect(plan[0]).To(Equal(entity.PlannedChapter{ID: "intro", Title: "Introdução"}))
		Expect(plan[1].Title).To(Equal("Capítulo 1: Fundamentos"))
		Expect(plan[4].ID).To(Equal("concl"))
	})

	It("should skip malformed and duplicate entries", func() {
		plan := creation.ParsePlannedChapters([]string{
			"intro:Introdução",
			"sem separador",
			":sem id",
			"cap1:",
			"intro:Outra introdução",
			" cap2 : Capítulo 2 ",
		})
		Expect(plan).To(Equal([]entity.PlannedChapter{
			{ID: "intro", Title: "Introdução"},
			{ID: "cap2", Title: "Capítulo 2"},
		}))
	})
})

var _ = Describe("FallbackForNiche", func() {
	DescribeTable("built-in niches",
		func(niche entity.Niche, first string) {
			out := creation.FallbackForNiche(niche)
			Expect(out).NotTo(BeEmpty())
			Expect(out[0].Title).To(Equal(first))
			for _, s := range out {
				Expect(s.Description).NotTo(BeEmpty())
				Expect(s.MonthlySearches).To(BeNumerically(">", 0))
				Expect(s.SaleProbability.Valid()).To(BeTrue())
			}
		},
		Entry("marketing digital", entity.NicheMarketingDigital, "Marketing de Conteúdo"),
		Entry("saúde e bem-estar", entity.NicheSaudeBemEstar, "Emagrecimento Saudável"),
		Entry("finanças", entity.NicheFinancas, "Investimentos para Iniciantes"),
		Entry("desenvolvimento pessoal", entity.NicheDesenvolvimentoPessoal, "Subnicho Popular"),
		Entry("e-commerce", entity.NicheEcommerce, "Subnicho Popular"),
		Entry("unknown niche", entity.Niche("pets"), "Subnicho Popular"),
	)

	It("should return an independent copy", func() {
		out := creation.FallbackForNiche(entity.NicheFinancas)
		out[0].Title = "changed"
		Expect(creation.FallbackForNiche(entity.NicheFinancas)[0].Title).To(Equal("Investimentos para Iniciantes"))
	})
})
