package server

type Response struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
}

type RequestBody struct {
	Request string `json:"request" binding:"required"`
}

type ReplyData struct {
	Reply     string `json:"reply"`
	Type      uint8  `json:"type"`
	RequestID string `json:"requestId"`
	Payload   string `json:"payload"`
}
