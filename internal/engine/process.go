package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/transport"
)

// process выполняет основную фазу покупки:
//
//	0 (E) — повторная проверка наличия товара и размера
//	1 (F) — добавление позиции в корзину
//	2 (G) — чтение итоговой корзины (цены, доставка, оплата)
//	3 (H) — отправка заказа и классификация ссылки подтверждения
//	4 (I) — разбор причины отказа оплаты (достижим только Jump'ом из H)
func (r *Runner) process(ctx context.Context, step *domain.StepProcess) action {
	switch r.substep {
	case 0:
		return r.processAvailability(ctx)
	case 1:
		return r.processAddToCart(ctx)
	case 2:
		return r.processCollectCart(ctx, step)
	case 3:
		return r.processSubmit(ctx, step)
	case 4:
		return r.processPaymentFail(ctx, step)
	default:
		return errorAct(unknownState("P"))
	}
}

// processAvailability (E) — товар и размер всё ещё в продаже?
func (r *Runner) processAvailability(ctx context.Context) action {
	resp, act, ok := r.send(ctx, "E", transport.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/%d/product/data?targetUrl=XS", siteBase, r.task.Variant.ID),
		Referer: r.detailReferer(),
		Delay:   r.delay(25, 30),
	})
	if !ok {
		return act
	}

	if resp.Status == http.StatusNotFound {
		return errorAct("Product not found")
	}

	result, err := domain.ParseResult(resp.Body)
	if err != nil {
		return errorAct(badResponse("E"))
	}

	variant, ok := result.Variant()
	if !ok {
		return errorAct(unknownScheme("E/VRT"))
	}

	if variant.SoldOut {
		return errorAct("Product already sold out")
	}

	size, ok := r.resolveSize(variant)
	if !ok {
		return errorAct("Product size not found")
	}
	if size.SoldOut {
		return errorAct("Product size already sold out")
	}
	r.size = size

	return cont()
}

// resolveSize находит размер задачи в карточке: по ID, по имени
// (партии из tasks.yaml задают размер именем) либо единственный
// размер безразмерного товара.
func (r *Runner) resolveSize(variant *domain.Variant) (domain.Size, bool) {
	if r.size.ID != 0 {
		size, ok := variant.Sizes[strconv.FormatUint(r.size.ID, 10)]
		return size, ok
	}
	if r.size.Name != "" {
		for _, size := range variant.Sizes {
			if size.Name == r.size.Name {
				return size, true
			}
		}
		return domain.Size{}, false
	}
	if len(variant.Sizes) == 1 {
		for _, size := range variant.Sizes {
			return size, true
		}
	}
	return domain.Size{}, false
}

// processAddToCart (F) — ровно одна позиция в корзине после добавления.
func (r *Runner) processAddToCart(ctx context.Context) action {
	form := url.Values{}
	form.Set("cod1S", strconv.FormatUint(r.task.Variant.ID, 10))
	form.Set("characteristicId", strconv.FormatUint(r.size.ID, 10))
	form.Set("quantity", "1")

	result, act, ok := r.sendParsed(ctx, "F", transport.Request{
		Method:  http.MethodPost,
		URL:     urlAddToBasket,
		Referer: r.detailReferer(),
		Form:    form,
		Delay:   r.delay(25, 30),
	})
	if !ok {
		return act
	}

	if result.State == -1 {
		return errorAct("Something went wrong (F)")
	}

	info, ok := result.BasketInfo()
	if !ok {
		return errorAct(unknownScheme("F/BS"))
	}

	switch info.Quantity {
	case 0:
		return errorAct("Can't add product to cart")
	case 1:
		return cont()
	default:
		if !r.task.Flags.Force {
			return errorAct("Cart corrupted. Check it by yourself")
		}
		return cont()
	}
}

// processCollectCart (G) — итоговая корзина как рабочие данные заказа.
func (r *Runner) processCollectCart(ctx context.Context, step *domain.StepProcess) action {
	result, act, ok := r.sendParsed(ctx, "G", transport.Request{
		Method:  http.MethodGet,
		URL:     urlBasketData,
		Referer: refererBasket,
		Delay:   r.delay(15, 25),
	})
	if !ok {
		return act
	}

	if result.State != 0 {
		return errorAct("Can't retrieve cart data")
	}

	basket, ok := result.Basket()
	if !ok {
		return errorAct(unknownScheme("G/B"))
	}

	step.Cart = *basket
	return cont()
}

// processSubmit (H) — отправка заказа и классификация ответа.
//
// Ссылка подтверждения бывает трёх видов: редирект на страницу отказа
// оплаты, сторонняя страница банковского подтверждения (3-D Secure)
// и ссылка с идентификатором оформленного заказа.
func (r *Runner) processSubmit(ctx context.Context, step *domain.StepProcess) action {
	form, err := orderForm(&step.Cart)
	if err != nil {
		return errorAct(unknownScheme("H/FORM"))
	}

	result, act, ok := r.sendParsed(ctx, "H", transport.Request{
		Method:  http.MethodPost,
		URL:     urlSubmitOrder,
		Referer: refererBasket,
		Form:    form,
		Delay:   r.delay(15, 20),
	})
	if !ok {
		return act
	}

	if result.State == -1 {
		return errorAct(unknownState("H"))
	}

	orderURL, ok := result.OrderURL()
	if !ok {
		return errorAct(unknownScheme("H/V"))
	}

	switch {
	case strings.HasSuffix(orderURL, paymentFailMark):
		return jumpTo(4)

	case strings.HasPrefix(orderURL, bankConfirmStart):
		return moveTo(domain.StepEnd{
			Content: orderURL,
			Cart:    step.Cart,
			Outcome: domain.Outcome{Kind: domain.OutcomeUserAction},
		}, "")

	case strings.Contains(orderURL, "orderId"):
		confirmed := r.confirmPayment(ctx, orderURL)
		return moveTo(domain.StepEnd{
			Content: orderURL,
			Cart:    step.Cart,
			Outcome: domain.Outcome{Kind: domain.OutcomeSucceeded, Confirmed: confirmed},
		}, "Sending embed")

	default:
		return errorAct(unknownScheme("H/URL"))
	}
}

// confirmPayment (J) — контрольный запрос успешности списания.
// Неуспех не фатален: заказ оформлен, меняется только признак
// подтверждения в уведомлении.
func (r *Runner) confirmPayment(ctx context.Context, orderURL string) bool {
	orderID, ok := retrieveBetween(orderURL, "?orderId=", "&paid")
	if !ok {
		return false
	}

	result, _, ok := r.sendParsed(ctx, "J", transport.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s?orderId=%s&paid=True", urlOrderConfirm, orderID),
		Referer: refererBasket,
		Delay:   r.delay(10, 15),
	})
	if !ok {
		return false
	}
	return result.State == 0
}

// processPaymentFail (I) — выцарапывает человекочитаемую причину
// отказа со страницы ошибки оплаты.
func (r *Runner) processPaymentFail(ctx context.Context, step *domain.StepProcess) action {
	resp, act, ok := r.send(ctx, "I", transport.Request{
		Method:  http.MethodGet,
		URL:     urlPaymentFail,
		Referer: refererBasket,
		Delay:   r.delay(10, 15),
	})
	if !ok {
		return act
	}

	desc, ok := retrieveBetween(string(resp.Body), `<p class="field-validation-error">`, "</p>")
	if !ok {
		desc = "<Can't parse error>"
	}

	return moveTo(domain.StepEnd{
		Content: desc,
		Cart:    step.Cart,
		Outcome: domain.Outcome{Kind: domain.OutcomeFailed},
	}, "")
}

// detailReferer — страница карточки товара.
func (r *Runner) detailReferer() string {
	return fmt.Sprintf("%s/catalog/%d/detail.aspx?targetUrl=XS", siteBase, r.task.Variant.ID)
}

// orderForm собирает URL-encoded форму оформления заказа из корзины.
// Неполная корзина (нет способов доставки) — ошибка схемы, не паника.
func orderForm(cart *domain.Basket) (url.Values, error) {
	if len(cart.DeliveryWays) == 0 {
		return nil, fmt.Errorf("cart has no delivery ways")
	}

	form := url.Values{}
	form.Set("orderDetails.DeliveryPointId", strconv.FormatUint(cart.DeliveryPoint.ID, 10))
	form.Set("orderDetails.DeliveryWay", cart.DeliveryWay)
	form.Set("orderDetails.DeliveryPrice", "")

	for cid, calendar := range cart.DeliveryWays[0].Calendars {
		date, err := time.Parse("1/2/2006", calendar.ShippingInterval.DeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("parse delivery date %q: %w", calendar.ShippingInterval.DeliveryDate, err)
		}

		form.Add("orderDetails.DeliveryDts.Index", strconv.Itoa(cid))
		form.Add(fmt.Sprintf("orderDetails.DeliveryDts[%d].Date", cid), date.Format("02.01.2006"))
		form.Add("orderDetails.DeliveryDts[0].IntervalId", strconv.FormatUint(calendar.ShippingInterval.ID, 10))

		for sid, store := range calendar.StoreIDs {
			form.Add("orderDetails.DeliveryDts[0].StoreIds.Index", strconv.Itoa(sid))
			form.Add(fmt.Sprintf("orderDetails.DeliveryDts[0].StoreIds[%d]", sid), strconv.FormatUint(store, 10))
		}
	}

	form.Set("orderDetails.GooglePayToken", "false")
	form.Set("orderDetails.PaymentType.Id", cart.PaymentType.ID)
	form.Set("orderDetails.MaskedCardId", cart.PaymentType.Card)
	form.Set("orderDetails.SberPayPhone", "")
	form.Set("orderDetails.AgreePublicOffert", "true")
	form.Set("orderDetails.TotalPrice", strconv.FormatUint(cart.TotalPrice, 10))

	for i, item := range cart.OrderItems {
		value := strconv.FormatUint(item, 10)
		form.Add("orderDetails.UserBasketItems.Index", strconv.Itoa(i))
		form.Add(fmt.Sprintf("orderDetails.UserBasketItems[%d].CharacteristicId", i), value)
		form.Add(fmt.Sprintf("orderDetails.IncludeInOrder[%d]", i), value)
	}

	return form, nil
}
