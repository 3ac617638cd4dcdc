// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// placeholder 匹配 ${VAR} 与 ${VAR:default}
var placeholder = regexp.MustCompile(`\$\{(\w+)(:([^}]*))?\}`)

// envAliases 部署时约定俗成的环境变量，优先级高于配置文件
var envAliases = map[string]string{
	"database.postgres.url":        "DATABASE_URL",
	"llm.providers.openai.api_key": "OPENAI_API_KEY",
	"security.jwt.secret":          "JWT_SECRET",
}

// Load 依次叠加默认值、configs/config.yaml、configs/config.<APP_ENV>.yaml 与环境变量。
// 配置文件都可以缺省；数据库与模型密钥缺失不算错误，由首次使用方报告。
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	for _, path := range []string{"configs/config.yaml", fmt.Sprintf("configs/config.%s.yaml", appEnv())} {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Creation.Scheduler = strings.ToLower(strings.TrimSpace(cfg.Creation.Scheduler))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func appEnv() string {
	if env := strings.TrimSpace(os.Getenv("APP_ENV")); env != "" {
		return env
	}
	return "development"
}

// mergeFile 展开占位符后合并到 viper，文件不存在时跳过
func mergeFile(v *viper.Viper, path string) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.MergeConfig(strings.NewReader(expandEnv(string(content)))); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// expandEnv 替换 ${VAR:default} 占位符；未设置且无默认值的占位符原样保留
func expandEnv(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		m := placeholder.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(m[1]); ok {
			return val
		}
		if m[2] != "" {
			return m[3]
		}
		return match
	})
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 应用默认值
	v.SetDefault("app.name", "infoprod-ai-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "300s")
	v.SetDefault("server.http.idle_timeout", "120s")

	// 数据库默认值（不设置 url/host，缺省即未配置）
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 25)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")
	v.SetDefault("database.postgres.auto_migrate", false)

	// Redis 默认值
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 50)
	v.SetDefault("cache.redis.min_idle_conns", 5)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// LLM 默认值
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.connectivity_timeout", "15s")

	// 消息队列默认值
	v.SetDefault("messaging.redis_stream.max_len", 10000)
	v.SetDefault("messaging.redis_stream.consumer_group_prefix", "infoprod")
	v.SetDefault("messaging.redis_stream.block_timeout", "5s")
	v.SetDefault("messaging.redis_stream.claim_interval", "30s")
	v.SetDefault("messaging.redis_stream.retry_limit", 3)
	v.SetDefault("messaging.redis_stream.retry_backoff.initial", "1s")
	v.SetDefault("messaging.redis_stream.retry_backoff.max", "30s")
	v.SetDefault("messaging.redis_stream.retry_backoff.multiplier", 2.0)

	// 创作流程默认值
	v.SetDefault("creation.session_ttl", "2h")
	v.SetDefault("creation.planned_chapters", DefaultPlannedChapters)
	v.SetDefault("creation.chapter_concurrency", 2)
	v.SetDefault("creation.scheduler", "inline")
	v.SetDefault("creation.stale_generation", "15m")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.jwt.issuer", "infoprod-ai")
	v.SetDefault("security.jwt.expiration", "24h")
	v.SetDefault("security.jwt.refresh_expiration", "168h")
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.generation_per_minute", 20)
}

// DefaultPlannedChapters 电子书默认章节规划
var DefaultPlannedChapters = []string{
	"intro:Introdução",
	"cap1:Capítulo 1: Fundamentos",
	"cap2:Capítulo 2: Estratégias Práticas",
	"cap3:Capítulo 3: Aplicação Avançada",
	"concl:Conclusão e Próximos Passos",
}
