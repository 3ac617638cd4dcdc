package config

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("expandEnv", func() {
	It("should use the environment value when set", func() {
		GinkgoT().Setenv("INFOPROD_TEST_PORT", "9090")
		Expect(expandEnv("port: ${INFOPROD_TEST_PORT:8080}")).To(Equal("port: 9090"))
	})

	It("should fall back to the default", func() {
		Expect(expandEnv("model: ${INFOPROD_TEST_UNSET_MODEL:gpt-4o-mini}")).To(Equal("model: gpt-4o-mini"))
	})

	It("should allow an empty default", func() {
		Expect(expandEnv("key: ${INFOPROD_TEST_UNSET_KEY:}")).To(Equal("key: "))
	})

	It("should keep placeholders without default untouched", func() {
		Expect(expandEnv("x: ${INFOPROD_TEST_UNSET_X}")).To(Equal("x: ${INFOPROD_TEST_UNSET_X}"))
	})
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		Expect(os.MkdirAll(filepath.Join(dir, "configs"), 0o755)).To(Succeed())

		wd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(os.Chdir, wd)
	})

	write := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(dir, "configs", name), []byte(content), 0o644)).To(Succeed())
	}

	It("should apply defaults when no file exists", func() {
		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Server.HTTP.Port).To(Equal(8080))
		Expect(cfg.Creation.Scheduler).To(Equal("inline"))
		Expect(cfg.Creation.PlannedChapters).To(Equal(DefaultPlannedChapters))
		Expect(cfg.LLM.ConnectivityTimeout).To(Equal(15 * time.Second))
		Expect(cfg.Creation.StaleGeneration).To(Equal(15 * time.Minute))
		Expect(cfg.Database.Postgres.Configured()).To(BeFalse())
	})

	It("should merge the environment specific file over the base file", func() {
		GinkgoT().Setenv("APP_ENV", "staging")
		write("config.yaml", "server:\n  http:\n    port: 7000\ncreation:\n  chapter_concurrency: 4\n")
		write("config.staging.yaml", "server:\n  http:\n    port: 7100\n")

		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.HTTP.Port).To(Equal(7100))
		Expect(cfg.Creation.ChapterConcurrency).To(Equal(4))
	})
})

var _ = Describe("PostgresConfig", func() {
	It("should prefer the URL", func() {
		c := PostgresConfig{URL: "postgres://u:p@db/app", Host: "ignored"}
		Expect(c.DSN()).To(Equal("postgres://u:p@db/app"))
		Expect(c.Configured()).To(BeTrue())
	})

	It("should build a DSN from parts", func() {
		c := PostgresConfig{Host: "db", Port: 5432, User: "app", Password: "s3cr3t", Database: "infoprod", SSLMode: "disable"}
		Expect(c.DSN()).To(Equal("postgres://app:s3cr3t@db:5432/infoprod?sslmode=disable"))
	})
})

var _ = Describe("Validate", func() {
	valid := func() *Config {
		return &Config{
			LLM:      LLMConfig{DefaultProvider: "openai", Providers: map[string]ProviderConfig{"openai": {}}},
			Creation: CreationConfig{Scheduler: SchedulerStream, ChapterConcurrency: 2, SessionTTL: time.Hour},
		}
	}

	It("should accept a complete configuration", func() {
		cfg := valid()
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Creation.StreamScheduling()).To(BeTrue())
	})

	It("should reject an unknown scheduler", func() {
		cfg := valid()
		cfg.Creation.Scheduler = "cron"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("creation.scheduler")))
	})

	It("should reject a negative stale generation window", func() {
		cfg := valid()
		cfg.Creation.StaleGeneration = -time.Minute
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("creation.stale_generation")))
	})

	It("should report every problem at once", func() {
		cfg := valid()
		cfg.Creation.ChapterConcurrency = 0
		cfg.LLM.DefaultProvider = "anthropic"

		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("chapter_concurrency")))
		Expect(err).To(MatchError(ContainSubstring("anthropic")))
	})
})

var _ = Describe("environment aliases", func() {
	It("should read DATABASE_URL without a config file", func() {
		dir := GinkgoT().TempDir()
		wd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(os.Chdir, wd)

		GinkgoT().Setenv("DATABASE_URL", "postgres://app@db/infoprod")
		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Database.Postgres.DSN()).To(Equal("postgres://app@db/infoprod"))
	})
})
