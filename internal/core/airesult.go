package core

// Usage 是單次請求的計量結果（依 connector 的 Unit 解讀）
type Usage struct {
	Value        float64 `json:"value"`
	CustomValue1 float64 `json:"customValue1,omitempty"`
	CustomValue2 float64 `json:"customValue2,omitempty"`
}

// PromptResponse 是 mediation 流程對呼叫端的最終結果，建立後不再變動。
type PromptResponse struct {
	Code         int    `json:"code"`
	Content      string `json:"content,omitempty"`
	ModelInfo    string `json:"modelInfo,omitempty"`
	Usage        Usage  `json:"usage"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	DebugInfo    string `json:"-"`
}

// PromptResponseFromResult 建立成功結果（code 200）
func PromptResponseFromResult(modelInfo string, usage Usage, content string) *PromptResponse {
	return &PromptResponse{
		Code:      200,
		Content:   content,
		ModelInfo: modelInfo,
		Usage:     usage,
	}
}

// PromptResponseFromError 建立失敗結果；debugInfo 僅進日誌，不回給使用者
func PromptResponseFromError(code int, message string, debugInfo string) *PromptResponse {
	return &PromptResponse{
		Code:         code,
		ErrorMessage: message,
		DebugInfo:    debugInfo,
	}
}

// IsError 回報是否為失敗結果
func (r *PromptResponse) IsError() bool {
	return r.Code != 200 || r.ErrorMessage != ""
}

// WithContent 回傳套用新內容的副本（輸出格式化用）
func (r *PromptResponse) WithContent(content string) *PromptResponse {
	copied := *r
	copied.Content = content
	return &copied
}

// RequestResult 是 connector 單次上游呼叫的結果。
// 傳輸層錯誤一律映射成帶錯誤碼的 RequestResult，不以 Go error 逸出。
type RequestResult struct {
	Code         int
	Response     []byte
	ErrorMessage string
	DebugInfo    string
}

// ResultFromResponse 包裝一次成功的上游回應
func ResultFromResponse(body []byte) *RequestResult {
	return &RequestResult{Code: 200, Response: body}
}

// ResultFromError 包裝一次失敗的上游呼叫
func ResultFromError(code int, message string, debugInfo string) *RequestResult {
	return &RequestResult{Code: code, ErrorMessage: message, DebugInfo: debugInfo}
}
