package obs

import (
	"encoding/json"
	"fmt"
)

// rpcVersion is the obs-websocket protocol revision this client negotiates.
const rpcVersion = 1

// Opcodes of the obs-websocket v5 envelope.
const (
	opHello           = 0
	opIdentify        = 1
	opIdentified      = 2
	opReidentify      = 3
	opEvent           = 5
	opRequest         = 6
	opRequestResponse = 7
)

// Request types used by the replay buffer verbs and the connectivity probe.
const (
	RequestGetVersion        = "GetVersion"
	RequestStartReplayBuffer = "StartReplayBuffer"
	RequestStopReplayBuffer  = "StopReplayBuffer"
)

// envelope is the outer frame of every obs-websocket message. The opcode
// selects the shape of the d payload.
type envelope struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
}

type helloData struct {
	ObsWebSocketVersion string     `json:"obsWebSocketVersion,omitempty"`
	RPCVersion          int        `json:"rpcVersion"`
	Authentication      *helloAuth `json:"authentication,omitempty"`
}

// helloAuth is present only when the server requires authentication.
type helloAuth struct {
	Challenge string `json:"challenge"`
	Salt      string `json:"salt"`
}

type identifyData struct {
	RPCVersion     int    `json:"rpcVersion"`
	Authentication string `json:"authentication,omitempty"`
	// EventSubscriptions stays zero: this client drives requests only and
	// asks the server for no event traffic.
	EventSubscriptions int `json:"eventSubscriptions"`
}

type identifiedData struct {
	NegotiatedRPCVersion int `json:"negotiatedRpcVersion"`
}

type requestPayload struct {
	RequestType string `json:"requestType"`
	RequestID   string `json:"requestId"`
	RequestData any    `json:"requestData,omitempty"`
}

type requestResponsePayload struct {
	RequestType   string          `json:"requestType"`
	RequestID     string          `json:"requestId"`
	RequestStatus requestStatus   `json:"requestStatus"`
	ResponseData  json.RawMessage `json:"responseData,omitempty"`
}

type requestStatus struct {
	Result  bool   `json:"result"`
	Code    int    `json:"code"`
	Comment string `json:"comment,omitempty"`
}

func encodeEnvelope(op int, d any) ([]byte, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding op %d payload: %w", op, err)
	}
	frame, err := json.Marshal(envelope{Op: op, D: payload})
	if err != nil {
		return nil, fmt.Errorf("encoding op %d envelope: %w", op, err)
	}
	return frame, nil
}

// RequestError reports a request the server received and rejected, carrying
// the requestStatus code and comment from the response frame.
type RequestError struct {
	Code    int
	Comment string
}

func (e *RequestError) Error() string {
	if e.Comment != "" {
		return fmt.Sprintf("request rejected (code %d): %s", e.Code, e.Comment)
	}
	return fmt.Sprintf("request rejected (code %d)", e.Code)
}
