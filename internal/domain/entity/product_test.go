package entity_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/domain/entity"
)

var _ = Describe("Product", func() {
	It("should list blank required fields", func() {
		p := entity.NewProduct("u", "  ", "desc", "", "sub")
		Expect(p.MissingRequired()).To(ConsistOf("title", "niche"))
	})

	It("should start with an empty feature list", func() {
		p := entity.NewProduct("u", "t", "d", "n", "s")
		Expect(p.FeaturesBenefits).NotTo(BeNil())
		Expect(p.FeaturesBenefits).To(BeEmpty())
		Expect(p.MissingRequired()).To(BeEmpty())
		Expect(p.IsOwnedBy("u")).To(BeTrue())
		Expect(p.IsOwnedBy("other")).To(BeFalse())
	})
})

var _ = Describe("Niche catalog", func() {
	It("should return a copy of the five built-in niches", func() {
		niches := entity.Niches()
		Expect(niches).To(HaveLen(5))

		niches[0].Label = "changed"
		Expect(entity.Niches()[0].Label).To(Equal("Marketing Digital"))
	})

	It("should fall back to the raw id for unknown niches", func() {
		Expect(entity.SelectNiche("financas").Label).To(Equal("Finanças Pessoais"))
		Expect(entity.SelectNiche("pets").Label).To(Equal("pets"))
	})

	It("should accept only the three sale probability levels", func() {
		Expect(entity.SaleProbabilityHigh.Valid()).To(BeTrue())
		Expect(entity.SaleProbability("Média").Valid()).To(BeTrue())
		Expect(entity.SaleProbability("Media").Valid()).To(BeFalse())
	})
})

var _ = Describe("UserProfile", func() {
	It("should normalize email and verify passwords", func() {
		u := entity.NewUserProfile(" Ana ", " Ana@Example.COM ")
		Expect(u.Name).To(Equal("Ana"))
		Expect(u.Email).To(Equal("ana@example.com"))

		Expect(u.SetPassword("segredo123")).To(Succeed())
		Expect(u.PasswordHash).NotTo(Equal("segredo123"))
		Expect(u.CheckPassword("segredo123")).To(BeTrue())
		Expect(u.CheckPassword("errada")).To(BeFalse())
	})
})
