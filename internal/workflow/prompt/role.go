package prompt

import "strings"

// ChapterRole 章节在电子书中的角色，由章节 ID 前缀决定
type ChapterRole string

const (
	ChapterRoleIntroduction ChapterRole = "introduction"
	ChapterRoleConclusion   ChapterRole = "conclusion"
	ChapterRoleExercises    ChapterRole = "exercises"
	ChapterRoleCaseStudies  ChapterRole = "case_studies"
	ChapterRoleStandard     ChapterRole = "standard"
)

type chapterRoleDef struct {
	prefix      string
	role        ChapterRole
	label       string
	instruction string
}

// 顺序即匹配优先级
var chapterRoles = []chapterRoleDef{
	{
		prefix:      "intro",
		role:        ChapterRoleIntroduction,
		label:       "introdução",
		instruction: "Este é um capítulo de introdução: apresente o tema e explique o que o leitor aprenderá ao longo do e-book.",
	},
	{
		prefix:      "concl",
		role:        ChapterRoleConclusion,
		label:       "conclusão",
		instruction: "Este é um capítulo de conclusão: faça um resumo dos pontos principais e indique próximos passos concretos.",
	},
	{
		prefix:      "exerc",
		role:        ChapterRoleExercises,
		label:       "exercícios práticos",
		instruction: "Este é um capítulo de exercícios: crie exercícios práticos relacionados ao tema, com instruções claras.",
	},
	{
		prefix:      "casos",
		role:        ChapterRoleCaseStudies,
		label:       "estudos de caso",
		instruction: "Este é um capítulo de estudos de caso: crie exemplos de casos reais ou hipotéticos e extraia lições de cada um.",
	},
}

var standardRole = chapterRoleDef{
	role:        ChapterRoleStandard,
	label:       "padrão",
	instruction: "Este é um capítulo padrão: desenvolva o tema do capítulo com explicações, listas e exemplos práticos.",
}

// ClassifyChapterRole 根据章节 ID 前缀判断章节角色
func ClassifyChapterRole(chapterID string) ChapterRole {
	return lookupRole(chapterID).role
}

// Label 角色在提示词中的葡语名称
func (r ChapterRole) Label() string {
	return defForRole(r).label
}

// Instruction 注入提示词的角色说明
func (r ChapterRole) Instruction() string {
	return defForRole(r).instruction
}

func lookupRole(chapterID string) chapterRoleDef {
	for _, def := range chapterRoles {
		if strings.HasPrefix(chapterID, def.prefix) {
			return def
		}
	}
	return standardRole
}

func defForRole(r ChapterRole) chapterRoleDef {
	for _, def := range chapterRoles {
		if def.role == r {
			return def
		}
	}
	return standardRole
}
