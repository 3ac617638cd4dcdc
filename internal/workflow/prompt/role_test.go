package prompt_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/workflow/prompt"
)

var _ = Describe("ClassifyChapterRole", func() {
	DescribeTable("chapter id prefixes",
		func(id string, role prompt.ChapterRole) {
			Expect(prompt.ClassifyChapterRole(id)).To(Equal(role))
		},
		Entry("introduction", "intro", prompt.ChapterRoleIntroduction),
		Entry("introduction with suffix", "introducao-geral", prompt.ChapterRoleIntroduction),
		Entry("conclusion", "concl", prompt.ChapterRoleConclusion),
		Entry("exercises", "exercicios-1", prompt.ChapterRoleExercises),
		Entry("case studies", "casos", prompt.ChapterRoleCaseStudies),
		Entry("prefix is case sensitive", "INTRO-1", prompt.ChapterRoleStandard),
		Entry("numbered chapter", "cap1", prompt.ChapterRoleStandard),
		Entry("empty id", "", prompt.ChapterRoleStandard),
		Entry("prefix must lead", "cap-intro", prompt.ChapterRoleStandard),
	)

	It("should give every role a label and an instruction", func() {
		for _, r := range []prompt.ChapterRole{
			prompt.ChapterRoleIntroduction,
			prompt.ChapterRoleConclusion,
			prompt.ChapterRoleExercises,
			prompt.ChapterRoleCaseStudies,
			prompt.ChapterRoleStandard,
		} {
			Expect(r.Label()).NotTo(BeEmpty())
			Expect(r.Instruction()).NotTo(BeEmpty())
		}
		Expect(prompt.ChapterRoleStandard.Label()).To(Equal("padrão"))
	})
})
