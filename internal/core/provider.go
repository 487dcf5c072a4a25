package core

// ConnectorName 識別一種 connector 實作
type ConnectorName string

const (
	ConnectorOpenAI      ConnectorName = "openai"
	ConnectorOpenAIImage ConnectorName = "openaiimage"
	ConnectorGateway     ConnectorName = "gateway"
	ConnectorQdrant      ConnectorName = "qdrant"
)

// Unit 表示用量計費單位
type Unit string

const (
	UnitToken Unit = "token"
	UnitCount Unit = "count"
)

// VDBAction 是向量庫 connector 支援的操作維度
type VDBAction string

const (
	VDBActionStore    VDBAction = "store"
	VDBActionRetrieve VDBAction = "retrieve"
	VDBActionDelete   VDBAction = "delete"
	VDBActionUpdate   VDBAction = "update"
)

type OpenAIEndpoint string

const (
	OpenAIAPIBaseURL = "https://api.openai.com"
)

const (
	OpenAIChatEndpoint          OpenAIEndpoint = "/chat/completions"
	OpenAIEmbeddingEndpoint     OpenAIEndpoint = "/embeddings"
	OpenAIImageGenerateEndpoint OpenAIEndpoint = "/images/generations"
)

// Gateway 模型清單標記；帶標記的模型只用於對應 purpose
const (
	GatewayImgGenMarker = "#IMGGEN"
	GatewayVisionMarker = "#VISION"
)
