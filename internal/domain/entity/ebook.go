package entity

import (
	"math"
	"strings"
	"time"
)

// EbookStatus 电子书状态
type EbookStatus string

const (
	EbookStatusPending    EbookStatus = "pending"
	EbookStatusGenerating EbookStatus = "generating"
	EbookStatusCompleted  EbookStatus = "completed"
	EbookStatusError      EbookStatus = "error"
)

// ChapterStatus 章节状态
type ChapterStatus string

const (
	ChapterStatusPending    ChapterStatus = "pending"
	ChapterStatusGenerating ChapterStatus = "generating"
	ChapterStatusCompleted  ChapterStatus = "completed"
	ChapterStatusError      ChapterStatus = "error"
)

// IsFinished 是否已结束（成功或失败）
func (s ChapterStatus) IsFinished() bool {
	return s == ChapterStatusCompleted || s == ChapterStatusError
}

// Chapter 电子书章节，归属于 Ebook，作为 jsonb 存储
type Chapter struct {
	ID      string        `json:"id"`
	Title   string        `json:"titulo"`
	Content string        `json:"conteudo,omitempty"`
	Status  ChapterStatus `json:"status"`
	// Error 最近一次失败原因，只用于展示
	Error       string     `json:"error,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// WordCount 按空白切分统计词数
func (c *Chapter) WordCount() int {
	return len(strings.Fields(c.Content))
}

// Ebook 电子书实体
type Ebook struct {
	ID          string      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      string      `json:"user_id" gorm:"type:uuid;index;not null"`
	ProductID   string      `json:"product_id" gorm:"type:uuid;uniqueIndex;not null"`
	Title       string      `json:"title" gorm:"type:varchar(255);not null"`
	Description string      `json:"description" gorm:"type:text"`
	Chapters    []Chapter   `json:"chapters" gorm:"type:jsonb;serializer:json"`
	Status      EbookStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Progress    int         `json:"progress" gorm:"default:0"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Ebook) TableName() string {
	return "ebooks"
}

// PlannedChapter 规划中的章节
type PlannedChapter struct {
	ID    string `json:"id"`
	Title string `json:"titulo"`
}

// NewEbook 根据产品和章节规划创建电子书，所有章节初始为 pending
func NewEbook(product *Product, plan []PlannedChapter) *Ebook {
	now := time.Now()
	chapters := make([]Chapter, 0, len(plan))
	for _, p := range plan {
		chapters = append(chapters, Chapter{ID: p.ID, Title: p.Title, Status: ChapterStatusPending})
	}
	e := &Ebook{
		UserID:      product.UserID,
		ProductID:   product.ID,
		Title:       product.Title,
		Description: product.Description,
		Chapters:    chapters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.Recalculate()
	return e
}

// Chapter 按 ID 查找章节
func (e *Ebook) Chapter(id string) *Chapter {
	for i := range e.Chapters {
		if e.Chapters[i].ID == id {
			return &e.Chapters[i]
		}
	}
	return nil
}

// StartChapter 章节进入 generating。
// 只有 pending 或被重新投递的 generating 章节可以开始，已结束的章节返回 false 且保持不变。
func (e *Ebook) StartChapter(id string) bool {
	ch := e.Chapter(id)
	if ch == nil || ch.Status.IsFinished() {
		return false
	}
	ch.Status = ChapterStatusGenerating
	ch.Error = ""
	e.Recalculate()
	return true
}

// CompleteChapter 写入章节内容并标记完成
func (e *Ebook) CompleteChapter(id, content string) bool {
	ch := e.Chapter(id)
	if ch == nil {
		return false
	}
	now := time.Now()
	ch.Content = content
	ch.Status = ChapterStatusCompleted
	ch.Error = ""
	ch.GeneratedAt = &now
	e.Recalculate()
	return true
}

// FailChapter 标记章节失败，不保留部分内容
func (e *Ebook) FailChapter(id, reason string) bool {
	ch := e.Chapter(id)
	if ch == nil {
		return false
	}
	ch.Content = ""
	ch.Status = ChapterStatusError
	ch.Error = reason
	e.Recalculate()
	return true
}

// ResetChapters 整本重新生成：所有章节回到 pending，章节列表不变
func (e *Ebook) ResetChapters() {
	for i := range e.Chapters {
		e.Chapters[i].Status = ChapterStatusPending
		e.Chapters[i].Content = ""
		e.Chapters[i].Error = ""
		e.Chapters[i].GeneratedAt = nil
	}
	e.Recalculate()
}

// Recalculate 根据章节状态重新计算整体状态和进度
//
// 进度为已完成章节占比（四舍五入）。状态规则：
//   - 全部 completed -> completed
//   - 全部 pending（或无章节）-> pending
//   - 仍有 pending/generating 且已开始 -> generating
//   - 全部结束且存在 error -> error
func (e *Ebook) Recalculate() {
	e.Status, e.Progress = AggregateChapters(e.Chapters)
	e.UpdatedAt = time.Now()
}

// AggregateChapters 计算章节集合的整体状态与进度
func AggregateChapters(chapters []Chapter) (EbookStatus, int) {
	total := len(chapters)
	if total == 0 {
		return EbookStatusPending, 0
	}

	var pending, generating, completed int
	for _, ch := range chapters {
		switch ch.Status {
		case ChapterStatusCompleted:
			completed++
		case ChapterStatusError:
			// 已结束，不计入进度
		case ChapterStatusGenerating:
			generating++
		default:
			pending++
		}
	}

	progress := int(math.Round(float64(completed) * 100 / float64(total)))

	switch {
	case completed == total:
		return EbookStatusCompleted, 100
	case pending == total:
		return EbookStatusPending, 0
	case pending+generating > 0:
		return EbookStatusGenerating, progress
	default:
		return EbookStatusError, progress
	}
}

// Counts 统计各状态章节数
func (e *Ebook) Counts() map[ChapterStatus]int {
	out := make(map[ChapterStatus]int, 4)
	for _, ch := range e.Chapters {
		out[ch.Status]++
	}
	return out
}

// WordCount 已完成章节的总词数
func (e *Ebook) WordCount() int {
	total := 0
	for i := range e.Chapters {
		if e.Chapters[i].Status == ChapterStatusCompleted {
			total += e.Chapters[i].WordCount()
		}
	}
	return total
}

// IsOwnedBy 检查归属
func (e *Ebook) IsOwnedBy(userID string) bool {
	return e.UserID == userID
}

// ChapterJob 单个章节的生成任务
type ChapterJob struct {
	UserID    string `json:"user_id"`
	EbookID   string `json:"ebook_id"`
	ChapterID string `json:"chapter_id"`
}

// PendingJobs 为所有 pending 章节生成任务
func (e *Ebook) PendingJobs() []ChapterJob {
	jobs := make([]ChapterJob, 0, len(e.Chapters))
	for _, ch := range e.Chapters {
		if ch.Status == ChapterStatusPending {
			jobs = append(jobs, ChapterJob{UserID: e.UserID, EbookID: e.ID, ChapterID: ch.ID})
		}
	}
	return jobs
}
