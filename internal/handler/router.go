package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"overlay-backend/internal/channel"
	"overlay-backend/internal/llm"
	"overlay-backend/internal/model"
	"overlay-backend/internal/window"
)

// Router 把控制面消息名路由到对应的协调器/客户端调用，
// 实现 channel.Handler。未知消息名是错误，不做静默忽略。
type Router struct {
	windows *window.Coordinator
	llm     *llm.Client
}

func NewRouter(windows *window.Coordinator, llmClient *llm.Client) *Router {
	return &Router{
		windows: windows,
		llm:     llmClient,
	}
}

func decode(payload json.RawMessage, out interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, out)
}

func (r *Router) Notify(name string, payload json.RawMessage) error {
	switch name {
	case channel.OverlayShow:
		var opts model.OverlayOptions
		if err := decode(payload, &opts); err != nil {
			return err
		}
		return r.windows.ShowOverlay(opts)

	case channel.OverlayHide:
		r.windows.HideOverlay()

	case channel.OverlayUpdateContent:
		var req model.ContentPayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.UpdateOverlayContent(req.Content)

	case channel.OverlayMove:
		var req model.MovePayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.MoveOverlay(req)

	case channel.OverlaySetOpacity:
		var req model.OpacityPayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.SetOverlayOpacity(req.Opacity)

	case channel.OverlaySetSize:
		var req model.SizePayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.SetOverlaySize(req.Width, req.Height)

	case channel.OverlaySetClickThrough:
		var req model.ClickThroughPayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.SetOverlayClickThrough(req.ClickThrough)

	case channel.MainSetOpacity:
		var req model.OpacityPayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.SetPrimaryOpacity(req.Opacity)

	case channel.MainSetSize:
		var req model.SizePayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.SetPrimarySize(req.Width, req.Height)

	case channel.MainSetClickThrough:
		var req model.ClickThroughPayload
		if err := decode(payload, &req); err != nil {
			return err
		}
		r.windows.SetPrimaryClickThrough(req.ClickThrough)

	case channel.MainCloseApp:
		r.windows.CloseApp()

	case channel.MainMinimize:
		r.windows.Minimize()

	default:
		return fmt.Errorf("unknown notification: %s", name)
	}
	return nil
}

func (r *Router) Call(name string, payload json.RawMessage) (interface{}, error) {
	switch name {
	case channel.OverlayGetState:
		return r.windows.OverlayState(), nil

	case channel.ChatbotSetModel:
		var req model.SetModelPayload
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return r.llm.SetModel(req.Model), nil

	case channel.ChatbotGetModel:
		return model.ModelResult{Model: r.llm.Model()}, nil

	case channel.ChatbotAskMCP:
		return r.llm.Ask(context.Background(), payload), nil

	case channel.MainHideFromCapture:
		return r.windows.HideFromCapture(), nil

	case channel.MainShowInCapture:
		return r.windows.ShowInCapture(), nil

	case channel.MainGetCaptureState:
		return r.windows.CaptureState(), nil

	case channel.OverlayTakeScreenshot:
		return r.windows.TakeScreenshot(), nil
	}

	return nil, fmt.Errorf("unknown call: %s", name)
}
