package core

import (
	"fmt"
	"math"
)

// SystemContextID 是系統 context 的固定 id；呼叫端傳 0 代表系統 context。
const SystemContextID int64 = 1

// RequestContext 是請求發生的 context 解析結果。
// CourseContextID 為 0 表示沒有 course 祖先。
type RequestContext struct {
	ID              int64
	CourseContextID int64
}

// RequestOptions 承載一次請求的 purpose/context/component 與額外選項。
// Sanitize 成功後即不可再變動，生命週期僅限單一請求的呼叫堆疊。
type RequestOptions struct {
	purpose   PurposeDefinition
	context   RequestContext
	component string
	options   map[string]any
	sanitized bool
}

func NewRequestOptions(purpose PurposeDefinition, requestContext RequestContext, component string, options map[string]any) *RequestOptions {
	if options == nil {
		options = map[string]any{}
	}
	return &RequestOptions{
		purpose:   purpose,
		context:   requestContext,
		component: component,
		options:   options,
	}
}

// Sanitize 核對所有選項鍵與型別是否在 purpose 的允許清單內。
// 任一選項不合法就整包拒絕。
func (o *RequestOptions) Sanitize() error {
	for key, value := range o.options {
		optionType, allowed := o.purpose.Options[key]
		if !allowed {
			return fmt.Errorf("option %q is not allowed for purpose %q", key, o.purpose.Name)
		}
		if !matchesOptionType(value, optionType) {
			return fmt.Errorf("option %q must be of type %s", key, optionType)
		}
	}
	o.sanitized = true
	return nil
}

// Sanitized 回報選項是否已通過檢查
func (o *RequestOptions) Sanitized() bool {
	return o.sanitized
}

func (o *RequestOptions) Purpose() PurposeDefinition {
	return o.purpose
}

func (o *RequestOptions) Context() RequestContext {
	return o.context
}

func (o *RequestOptions) Component() string {
	return o.component
}

// Options 回傳選項副本，避免呼叫端改動內部狀態
func (o *RequestOptions) Options() map[string]any {
	copied := make(map[string]any, len(o.options))
	for key, value := range o.options {
		copied[key] = value
	}
	return copied
}

func (o *RequestOptions) Option(key string) (any, bool) {
	value, ok := o.options[key]
	return value, ok
}

// StringOption 取字串選項，未設定或型別不符時回傳 fallback
func (o *RequestOptions) StringOption(key, fallback string) string {
	if value, ok := o.options[key]; ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return fallback
}

// IntOption 取整數選項；JSON 解碼後的數字是 float64，這裡一併接受
func (o *RequestOptions) IntOption(key string, fallback int) int {
	value, ok := o.options[key]
	if !ok {
		return fallback
	}
	switch number := value.(type) {
	case int:
		return number
	case int64:
		return int(number)
	case float64:
		return int(number)
	}
	return fallback
}

// BoolOption 取布林選項
func (o *RequestOptions) BoolOption(key string) bool {
	if value, ok := o.options[key]; ok {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return false
}

// MapOption 取 map 選項
func (o *RequestOptions) MapOption(key string) map[string]any {
	if value, ok := o.options[key]; ok {
		if m, ok := value.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// DropOption 移除一個選項（僅供 409 audit 記錄前拿掉 itemid 使用）
func (o *RequestOptions) DropOption(key string) {
	delete(o.options, key)
}

func matchesOptionType(value any, optionType OptionType) bool {
	switch optionType {
	case OptionTypeString:
		_, ok := value.(string)
		return ok
	case OptionTypeBool:
		_, ok := value.(bool)
		return ok
	case OptionTypeInt:
		switch number := value.(type) {
		case int, int64:
			return true
		case float64:
			return number == math.Trunc(number)
		}
		return false
	case OptionTypeFloat:
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case OptionTypeMap:
		_, ok := value.(map[string]any)
		return ok
	case OptionTypeList:
		_, ok := value.([]any)
		return ok
	}
	return false
}
