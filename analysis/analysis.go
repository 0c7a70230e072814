// Package analysis asks a language model for feedback on a single trade and
// records the answer against the trade log.
package analysis

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/2492dfd/stockLog-final/config"
	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/metrics"
	"github.com/2492dfd/stockLog-final/models"
	"github.com/2492dfd/stockLog-final/trace"
)

const promptTemplate = `너는 주식 투자 심리 전문가이자 냉철한 자산관리사야. 아래의 매매 기록을 보고, 유저의 '투자 심리'와 '행동'을 분석해서 조언해줘.

[매매 정보]
- 종목명: %s
- 매매 수량: %s주
- 평균 단가: %s
- 매매 이유: %s
- 사용자가 설정한 태그: [%s]

[지침]
1. 매매 당시 이 종목이 급등 중이었거나 변동성이 컸을 가능성을 언급하며 행동을 분석해줘.
2. 만약 태그에 '뇌동매매'나 '추격매매'가 있다면, 왜 그런 행동이 위험한지 뼈를 때리듯 냉정하게 지적해줘.
3. 마지막에는 '남에게 이끌리지 않는 매매'와 '충동 구매 지양'을 강조하며 토스(Toss) 스타일로 친절하게 3문장으로 요약해줘.
`

// Loader fetches a trade log on behalf of its owner.
type Loader interface {
	Get(ctx context.Context, userID, id string) (models.TradeLog, error)
}

type Service struct {
	db     *gorm.DB
	logs   Loader
	client Client
}

func NewService(db *gorm.DB, logs Loader, client Client) *Service {
	if client == nil {
		client = NoopClient{}
	}
	return &Service{db: db, logs: logs, client: client}
}

// NewClient picks the client named by cfg.Provider.
func NewClient(cfg config.AnalysisConfig) Client {
	if cfg.Provider == "gemini" {
		return NewGeminiClient(cfg.APIKey, cfg.Model, cfg.Timeout)
	}
	return NoopClient{}
}

// BuildPrompt renders the feedback prompt for one trade.
func BuildPrompt(log models.TradeLog) string {
	return fmt.Sprintf(promptTemplate,
		log.StockName,
		log.ExecutedQuantity.String(),
		log.ExecutionPrice.String(),
		log.ReasonForSale,
		log.Tags.Labels(),
	)
}

// Analyze runs the model on one trade log. The log is IN_PROGRESS while the
// model runs, COMPLETED with the feedback afterwards, and back to PENDING if
// the model fails.
func (s *Service) Analyze(ctx context.Context, userID, id string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "analysis.Analyze")
	defer span.End()
	span.SetAttributes(attribute.String("trade_log_id", id))

	log, err := s.logs.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if err := s.setStatus(ctx, log.ID, models.StatusInProgress); err != nil {
		return "", err
	}

	feedback, err := s.client.Generate(ctx, BuildPrompt(log))
	metrics.RecordAnalysis(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		logger.ErrorWithErr(ctx, "AI analysis failed", err, "trade_log_id", log.ID)
		s.reset(ctx, log.ID)
		return "", fmt.Errorf("failed to analyze trade log %s: %w", log.ID, err)
	}

	if err := s.save(ctx, log.ID, feedback); err != nil {
		span.RecordError(err)
		logger.ErrorWithErr(ctx, "Failed to store AI analysis", err, "trade_log_id", log.ID)
		s.reset(ctx, log.ID)
		return "", err
	}
	logger.Info(ctx, "AI analysis completed", "trade_log_id", log.ID, "chars", len([]rune(feedback)))
	return feedback, nil
}

func (s *Service) setStatus(ctx context.Context, id string, status models.AnalysisStatus) error {
	err := s.db.WithContext(ctx).Model(&models.TradeLog{}).
		Where("id = ?", id).
		Update("evaluation_status", status).Error
	if err != nil {
		return fmt.Errorf("failed to set analysis status: %w", err)
	}
	return nil
}

// reset puts the log back to PENDING so it can be analyzed again.
func (s *Service) reset(ctx context.Context, id string) {
	if err := s.setStatus(ctx, id, models.StatusPending); err != nil {
		logger.ErrorWithErr(ctx, "Failed to reset analysis status", err, "trade_log_id", id)
	}
}

// save upserts the AiAnalysis row and completes the log in one transaction.
func (s *Service) save(ctx context.Context, id, feedback string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.AiAnalysis{TradeLogID: id, Content: feedback}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trade_log_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}

		err = tx.Model(&models.TradeLog{}).Where("id = ?", id).Updates(map[string]any{
			"evaluation_status": models.StatusCompleted,
			"ai_feedback":       feedback,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to complete trade log: %w", err)
		}
		return nil
	})
}
