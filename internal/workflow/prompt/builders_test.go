package prompt_test

import (
	"github.com/cloudwego/eino/schema"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	wfmodel "infoprod-ai-api/internal/workflow/model"
	"infoprod-ai-api/internal/workflow/prompt"
)

var _ = Describe("Builders", func() {
	It("should render sub-niche prompts with a default count", func() {
		req, err := prompt.BuildSubNichesMessages(wfmodel.SubNichesInput{Niche: " Finanças Pessoais "})
		Expect(err).NotTo(HaveOccurred())

		Expect(req.ContentType).To(Equal(prompt.ContentSubNiches))
		Expect(req.System()).NotTo(BeEmpty())
		Expect(req.User()).To(ContainSubstring("Gere 6 subnichos"))
		Expect(req.User()).To(ContainSubstring("nicho de Finanças Pessoais."))
		Expect(req.User()).To(ContainSubstring(`"probabilidadeVenda": "Alta"`))
		Expect(req.Params.JSONResponse).To(BeTrue())
		Expect(*req.Params.Temperature).To(BeNumerically("~", 0.7, 0.001))
		Expect(req.Params.MaxTokens).To(Equal(1000))
	})

	It("should ask for at least five features in product details", func() {
		req, err := prompt.BuildProductDetailsMessages(wfmodel.ProductDetailsInput{Niche: "E-commerce", SubNiche: "Dropshipping"})
		Expect(err).NotTo(HaveOccurred())
		Expect(req.User()).To(ContainSubstring("subnicho de Dropshipping"))
		Expect(req.User()).To(ContainSubstring("pelo menos 5"))
		Expect(req.Params.JSONResponse).To(BeTrue())
	})

	It("should use plain text parameters for titles and descriptions", func() {
		title, err := prompt.BuildTitleMessages(wfmodel.TitleInput{Niche: "Marketing Digital", SubNiche: "SEO"})
		Expect(err).NotTo(HaveOccurred())
		Expect(title.User()).To(ContainSubstring("Crie 5 opções"))
		Expect(title.Params.JSONResponse).To(BeFalse())
		Expect(*title.Params.Temperature).To(BeNumerically("~", 0.8, 0.001))
		Expect(title.Params.MaxTokens).To(Equal(250))

		desc, err := prompt.BuildDescriptionMessages(wfmodel.DescriptionInput{Title: "Guia SEO", Niche: "Marketing Digital"})
		Expect(err).NotTo(HaveOccurred())
		Expect(desc.User()).To(ContainSubstring(`título "Guia SEO"`))
		Expect(desc.User()).To(ContainSubstring("3 parágrafos"))
		Expect(desc.Params.MaxTokens).To(Equal(500))
	})

	It("should inject the chapter role into chapter prompts", func() {
		req, err := prompt.BuildChapterMessages(wfmodel.ChapterInput{
			EbookTitle:       "Guia",
			EbookDescription: "Um guia",
			ChapterID:        "concl",
			ChapterTitle:     "Conclusão",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(req.User()).To(ContainSubstring("Tipo de Capítulo: conclusão"))
		Expect(req.User()).To(ContainSubstring(prompt.ChapterRoleConclusion.Instruction()))
		Expect(req.User()).To(ContainSubstring("pelo menos 800 palavras"))
		Expect(req.Params.MaxTokens).To(Equal(2000))
	})

	It("should pass free prompts through unchanged", func() {
		req, err := prompt.BuildContentStreamMessages(wfmodel.ContentStreamInput{Prompt: "Escreva um post"})
		Expect(err).NotTo(HaveOccurred())
		Expect(req.User()).To(Equal("Escreva um post"))
	})

	It("should build a minimal connectivity check", func() {
		req, err := prompt.BuildConnectivityMessages()
		Expect(err).NotTo(HaveOccurred())
		Expect(req.System()).To(BeEmpty())
		Expect(req.User()).To(ContainSubstring("conectado"))
		Expect(req.Params.Temperature).To(BeNil())
		Expect(req.Params.MaxTokens).To(Equal(10))
	})
})

var _ = Describe("embedded templates", func() {
	It("should build every prompt without error", func() {
		_, err := prompt.BuildTitleMessages(wfmodel.TitleInput{Niche: "Finanças", SubNiche: "Investimentos"})
		Expect(err).NotTo(HaveOccurred())
		_, err = prompt.BuildContentStreamMessages(wfmodel.ContentStreamInput{Prompt: "Escreva um post"})
		Expect(err).NotTo(HaveOccurred())
		_, err = prompt.BuildConnectivityMessages()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should omit the system message when a prompt has none", func() {
		req, err := prompt.BuildConnectivityMessages()
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Messages).To(HaveLen(1))
		Expect(req.Messages[0].Role).To(Equal(schema.User))
	})
})
