package generation

import (
	"context"
	"errors"
	"time"

	workflowprompt "infoprod-ai-api/internal/workflow/prompt"
	apperrors "infoprod-ai-api/pkg/errors"
)

// DefaultConnectivityTimeout 连通性检查的默认超时
const DefaultConnectivityTimeout = 15 * time.Second

// ConnectivityReport 连通性检查结果
type ConnectivityReport struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"errorType,omitempty"`
	Model     string `json:"model,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// CheckConnectivity 发送极短的提示词验证提供商可用，超时即中止
func (s *Service) CheckConnectivity(ctx context.Context, timeout time.Duration) *ConnectivityReport {
	if timeout <= 0 {
		timeout = DefaultConnectivityTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report := &ConnectivityReport{Model: s.client.ModelName()}
	start := time.Now()
	defer func() { report.LatencyMS = time.Since(start).Milliseconds() }()

	req, err := workflowprompt.BuildConnectivityMessages()
	if err != nil {
		report.Message = "Falha ao montar a requisição de teste"
		report.Error = err.Error()
		report.ErrorType = string(apperrors.ProviderErrorUnknown)
		return report
	}

	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		report.Message = "Falha ao conectar com a API do provedor"
		report.Error = err.Error()
		report.ErrorType = string(connectivityErrorKind(err))
		return report
	}

	report.Success = true
	report.Message = "Conexão com a API estabelecida com sucesso"
	report.Response = NormalizeText(raw)
	if report.Response == "" {
		report.Response = "Sem resposta"
	}
	return report
}

func connectivityErrorKind(err error) apperrors.ProviderErrorKind {
	if errors.Is(err, apperrors.ErrConfiguration) {
		return apperrors.ProviderErrorAPIKey
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ProviderErrorConnection
	}
	if kind := apperrors.ProviderKind(err); kind != "" {
		return kind
	}
	return apperrors.ProviderErrorUnknown
}
