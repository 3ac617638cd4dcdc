package creation

import (
	"strings"

	"infoprod-ai-api/internal/domain/entity"
)

// ParsePlannedChapters 解析 "id:标题" 形式的章节规划，忽略格式不正确的项
func ParsePlannedChapters(items []string) []entity.PlannedChapter {
	out := make([]entity.PlannedChapter, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id, title, ok := strings.Cut(item, ":")
		id = strings.TrimSpace(id)
		title = strings.TrimSpace(title)
		if !ok || id == "" || title == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, entity.PlannedChapter{ID: id, Title: title})
	}
	return out
}
