package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/transport"
)

// warmup выполняет подготовительные под-шаги:
//
//	0 (A) — проверка, что токен сессии аккаунта жив
//	1 (B) — установка региональных cookie
//	2 (C) — инспекция корзины; чужие товары вычищаются (D) только
//	        при флаге Force, иначе грязная корзина — ошибка
func (r *Runner) warmup(ctx context.Context) action {
	switch r.substep {
	case 0:
		return r.warmupToken(ctx)
	case 1:
		return r.warmupLocation(ctx)
	case 2:
		return r.warmupCart(ctx)
	default:
		return moveTo(domain.StepProcess{}, "")
	}
}

// warmupToken (A) — валидация сессии аккаунта.
func (r *Runner) warmupToken(ctx context.Context) action {
	result, act, ok := r.sendParsed(ctx, "A", transport.Request{
		Method:  http.MethodGet,
		URL:     urlPersonalData,
		Referer: refererCabinet,
	})
	if !ok {
		return act
	}

	if result.State == -1 {
		return errorAct("Account token is expired")
	}
	return cont()
}

// warmupLocation (B) — региональное состояние сессии.
func (r *Runner) warmupLocation(ctx context.Context) action {
	result, act, ok := r.sendParsed(ctx, "B", transport.Request{
		Method:  http.MethodPost,
		URL:     urlUserLocation,
		Referer: refererLogin,
		Delay:   r.delay(5, 10),
	})
	if !ok {
		return act
	}

	if result.State == -1 {
		return errorAct("Can't get user location (B)")
	}
	return cont()
}

// warmupCart (C/D) — инспекция и очистка корзины.
func (r *Runner) warmupCart(ctx context.Context) action {
	result, act, ok := r.sendParsed(ctx, "C", transport.Request{
		Method:  http.MethodGet,
		URL:     urlBasketData,
		Referer: refererBasket,
		Delay:   r.delay(10, 20),
	})
	if !ok {
		return act
	}

	if result.State != 0 {
		return errorAct("Can't retrieve cart data")
	}

	basket, ok := result.Basket()
	if !ok {
		return errorAct(unknownScheme("C/B"))
	}

	if len(basket.OrderItems) > 0 {
		if !r.task.Flags.Force {
			return errorAct("Cart contains other items")
		}
		if act := r.clearCart(ctx, basket.OrderItems); act.kind == actError {
			return act
		}
	}

	return moveTo(domain.StepProcess{}, "")
}

// clearCart (D) — удаление чужих позиций из корзины.
func (r *Runner) clearCart(ctx context.Context, items []uint64) action {
	form := url.Values{}
	for i, item := range items {
		form.Set(fmt.Sprintf("chrtIds[%d]", i), strconv.FormatUint(item, 10))
	}

	result, act, ok := r.sendParsed(ctx, "D", transport.Request{
		Method:  http.MethodPost,
		URL:     urlBasketDelete,
		Referer: refererBasket,
		Form:    form,
		Delay:   r.delay(5, 10),
	})
	if !ok {
		return act
	}

	if result.State == -1 {
		return errorAct("Can't remove other items from cart")
	}
	return cont()
}
