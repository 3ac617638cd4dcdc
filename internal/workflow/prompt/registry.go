package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// 每个提示词由 <id>.user.txt 与可选的 <id>.system.txt 组成
//
//go:embed templates/*.txt
var templatesFS embed.FS

// PromptID 模板标识，带版本后缀
type PromptID string

const (
	PromptSubNichesV1      PromptID = "subniches_v1"
	PromptProductDetailsV1 PromptID = "product_details_v1"
	PromptTitleV1          PromptID = "title_v1"
	PromptDescriptionV1    PromptID = "description_v1"
	PromptChapterV1        PromptID = "chapter_v1"
	PromptContentStreamV1  PromptID = "content_stream_v1"
	PromptConnectivityV1   PromptID = "connectivity_v1"
)

// templates 首次使用时解析全部内嵌模板
var templates = sync.OnceValues(func() (map[PromptID]einoprompt.ChatTemplate, error) {
	return loadTemplates(templatesFS, "templates")
})

func chatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	all, err := templates()
	if err != nil {
		return nil, err
	}
	tpl, ok := all[id]
	if !ok {
		return nil, fmt.Errorf("unknown prompt id: %s", id)
	}
	return tpl, nil
}

func loadTemplates(fsys fs.FS, dir string) (map[PromptID]einoprompt.ChatTemplate, error) {
	users, err := fs.Glob(fsys, path.Join(dir, "*.user.txt"))
	if err != nil {
		return nil, err
	}

	out := make(map[PromptID]einoprompt.ChatTemplate, len(users))
	for _, userPath := range users {
		id := PromptID(strings.TrimSuffix(path.Base(userPath), ".user.txt"))

		msgs := make([]schema.MessagesTemplate, 0, 2)
		system, err := readText(fsys, path.Join(dir, string(id)+".system.txt"))
		switch {
		case err == nil:
			msgs = append(msgs, schema.SystemMessage(system))
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}

		user, err := readText(fsys, userPath)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, schema.UserMessage(user))

		// 模板正文含 JSON 示例，用 Go template 语法避开 {} 冲突
		out[id] = einoprompt.FromMessages(schema.GoTemplate, msgs...)
	}
	return out, nil
}

func readText(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
