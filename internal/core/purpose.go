package core

import "strings"

// Purpose 定義一個 AI 能力類別（chat、translate、embedding ...）
type Purpose string

const (
	PurposeChat               Purpose = "chat"
	PurposeSinglePrompt       Purpose = "singleprompt"
	PurposeTranslate          Purpose = "translate"
	PurposeFeedback           Purpose = "feedback"
	PurposeQuestionGeneration Purpose = "questiongeneration"
	PurposeTTS                Purpose = "tts"
	PurposeITT                Purpose = "itt"
	PurposeImgGen             Purpose = "imggen"
	PurposeEmbedding          Purpose = "embedding"
	PurposeRAG                Purpose = "rag"
)

// OptionType 描述 purpose 允許的額外選項型別
type OptionType string

const (
	OptionTypeString OptionType = "string"
	OptionTypeInt    OptionType = "int"
	OptionTypeFloat  OptionType = "float"
	OptionTypeBool   OptionType = "bool"
	OptionTypeMap    OptionType = "map"
	OptionTypeList   OptionType = "list"
)

// 共用選項鍵名
const (
	OptionAction         = "action"
	OptionItemID         = "itemid"
	OptionForceNewItemID = "forcenewitemid"
	OptionTopK           = "topk"
	OptionDocument       = "document"
	OptionMetadata       = "metadata"
	OptionRecordID       = "id"
	OptionConversation   = "conversationcontext"
	OptionImage          = "image"
	OptionImageSize      = "size"
	OptionVoice          = "voice"
	OptionLanguage       = "language"
)

// PurposeDefinition 是 purpose 目錄中的一筆不可變項目。
// 建於程序啟動，之後只讀。
type PurposeDefinition struct {
	Name         Purpose
	Options      map[string]OptionType
	FormatOutput func(content string) string
}

// baseOptions 為所有 purpose 共用的選項
func baseOptions(extra map[string]OptionType) map[string]OptionType {
	options := map[string]OptionType{
		OptionItemID:         OptionTypeString,
		OptionForceNewItemID: OptionTypeBool,
	}
	for key, optionType := range extra {
		options[key] = optionType
	}
	return options
}

var purposeCatalog = map[Purpose]PurposeDefinition{
	PurposeChat: {
		Name: PurposeChat,
		Options: baseOptions(map[string]OptionType{
			OptionConversation: OptionTypeList,
		}),
	},
	PurposeSinglePrompt: {
		Name:    PurposeSinglePrompt,
		Options: baseOptions(nil),
	},
	PurposeTranslate: {
		Name: PurposeTranslate,
		Options: baseOptions(map[string]OptionType{
			OptionLanguage: OptionTypeString,
		}),
	},
	PurposeFeedback: {
		Name:    PurposeFeedback,
		Options: baseOptions(nil),
	},
	PurposeQuestionGeneration: {
		Name:    PurposeQuestionGeneration,
		Options: baseOptions(nil),
	},
	PurposeTTS: {
		Name: PurposeTTS,
		Options: baseOptions(map[string]OptionType{
			OptionVoice: OptionTypeString,
		}),
	},
	PurposeITT: {
		Name: PurposeITT,
		Options: baseOptions(map[string]OptionType{
			OptionImage: OptionTypeString,
		}),
	},
	PurposeImgGen: {
		Name: PurposeImgGen,
		Options: baseOptions(map[string]OptionType{
			OptionImageSize: OptionTypeString,
		}),
	},
	PurposeEmbedding: {
		Name:    PurposeEmbedding,
		Options: baseOptions(nil),
	},
	PurposeRAG: {
		Name: PurposeRAG,
		Options: baseOptions(map[string]OptionType{
			OptionAction:   OptionTypeString,
			OptionTopK:     OptionTypeInt,
			OptionDocument: OptionTypeMap,
			OptionMetadata: OptionTypeMap,
			OptionRecordID: OptionTypeString,
		}),
		// 檢索結果統一去除前後空白即可，上游已是 JSON 字串
		FormatOutput: strings.TrimSpace,
	},
}

// PurposeByName 依名稱取得 purpose 定義
func PurposeByName(name Purpose) (PurposeDefinition, bool) {
	definition, ok := purposeCatalog[name]
	return definition, ok
}

// AllPurposes 回傳所有已註冊的 purpose 名稱
func AllPurposes() []Purpose {
	purposes := make([]Purpose, 0, len(purposeCatalog))
	for name := range purposeCatalog {
		purposes = append(purposes, name)
	}
	return purposes
}

// Format 套用 purpose 的輸出格式器，未設定時原樣回傳
func (d PurposeDefinition) Format(content string) string {
	if d.FormatOutput == nil {
		return content
	}
	return d.FormatOutput(content)
}
