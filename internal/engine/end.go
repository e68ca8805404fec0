package engine

import (
	"context"
	"net/http"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/transport"
)

// end отправляет уведомление об исходе и завершает задачу.
//
// Ошибка доставки уведомления восстановима: шаг запоминается в resume,
// и Retry повторит только отправку, не трогая уже оформленный заказ.
func (r *Runner) end(ctx context.Context, step domain.StepEnd) action {
	if err := r.notifier.SendOutcome(ctx, r.task, step.Outcome, step.Content, step.Cart, r.startedAt); err != nil {
		if ctx.Err() != nil {
			return action{}
		}
		r.resume = step
		r.logger.Warn("outcome notification failed", "err", err)
		return errorAct("Webhook error")
	}
	r.resume = nil

	switch step.Outcome.Kind {
	case domain.OutcomeSucceeded:
		if r.task.Flags.Monitor {
			if orderID, ok := retrieveBetween(step.Content, "?orderId=", "&paid"); ok {
				return moveTo(domain.StepMonitor{OrderID: orderID}, "Waiting for order")
			}
		}
		if step.Outcome.Confirmed {
			return completeAct("Success")
		}
		return completeAct("Success (Unconfirmed)")

	case domain.OutcomeUserAction:
		return completeAct("User Action Required")

	case domain.OutcomeFailed:
		return failedAct("Bank error")

	default:
		return errorAct(unknownState("END"))
	}
}

// monitor опрашивает список заказов аккаунта, пока оформленный заказ
// не появится в нём. Номер под-шага служит счётчиком попыток.
func (r *Runner) monitor(ctx context.Context, step domain.StepMonitor) action {
	if r.substep >= monitorAttempts {
		return failedAct("Order not detected")
	}

	result, act, ok := r.sendParsed(ctx, "M", transport.Request{
		Method:  http.MethodGet,
		URL:     urlOrderList,
		Referer: refererCabinet,
		Delay:   monitorInterval,
	})
	if !ok {
		return act
	}

	if result.State != 0 {
		return errorAct("Can't retrieve order list")
	}

	orders, ok := result.OrderIDs()
	if !ok {
		return errorAct(unknownScheme("M/O"))
	}

	for _, id := range orders {
		if id == step.OrderID {
			if err := r.notifier.SendOrderDetected(ctx, r.task, step.OrderID, r.startedAt); err != nil {
				r.logger.Warn("order notification failed", "err", err)
			}
			return completeAct("Success")
		}
	}

	return cont()
}
