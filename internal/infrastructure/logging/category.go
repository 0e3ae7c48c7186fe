package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Game            Category = "Game"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
	WebSocket       Category = "WebSocket"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Game
	Rooms       SubCategory = "Rooms"
	Rounds      SubCategory = "Rounds"
	Persistence SubCategory = "Persistence"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	HostIp       ExtraKey = "HostIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RequestBody  ExtraKey = "RequestBody"
	ResponseBody ExtraKey = "ResponseBody"
	ErrorMessage ExtraKey = "ErrorMessage"
	RoomCode     ExtraKey = "RoomCode"
	PlayerID     ExtraKey = "PlayerID"
	RoundNumber  ExtraKey = "RoundNumber"
)
