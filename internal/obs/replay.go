package obs

import "context"

// Replay adapts the service and dispatcher to the replay-buffer verbs:
// starting is a background job (OBS may still be booting), stopping is a
// synchronous request over the shared connection.
type Replay struct {
	service    *Service
	dispatcher *Dispatcher
}

func NewReplay(service *Service, dispatcher *Dispatcher) *Replay {
	return &Replay{service: service, dispatcher: dispatcher}
}

// StartAsync hands the buffer-start request to the dispatcher and returns
// immediately.
func (r *Replay) StartAsync(ctx context.Context) {
	r.dispatcher.Submit(ctx, Job{
		Name:        "start-replay-buffer",
		RequestType: RequestStartReplayBuffer,
	})
}

// Stop sends StopReplayBuffer and waits for the response.
func (r *Replay) Stop(ctx context.Context) error {
	_, err := r.service.Request(ctx, RequestStopReplayBuffer, nil)
	return err
}
