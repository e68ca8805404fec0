package domain

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// ErrBadScheme — ответ сайта не соответствует ожидаемой схеме.
var ErrBadScheme = errors.New("unexpected response scheme")

// ResponseResult — конверт ответа внутреннего API сайта.
//
// Поле value полиморфно: в зависимости от эндпоинта там лежит строка,
// объект с данными, ссылка на заказ или краткая информация о корзине.
// Сайт непоследователен в регистре ключей (resultState/ResultState),
// поэтому парсинг ведётся через gjson-пробы, а не через жёсткую схему.
type ResponseResult struct {
	// State — код результата: 0 — успех, -1 — бизнес-ошибка.
	State int64

	raw []byte
}

// ParseResult разбирает тело ответа в ResponseResult.
// Возвращает ErrBadScheme, если тело не JSON или в нём нет кода результата.
func ParseResult(body []byte) (*ResponseResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrBadScheme
	}

	state := gjson.GetBytes(body, "resultState")
	if !state.Exists() {
		state = gjson.GetBytes(body, "ResultState")
	}
	if !state.Exists() {
		return nil, ErrBadScheme
	}

	return &ResponseResult{State: state.Int(), raw: body}, nil
}

// value возвращает полиморфное поле value (или его алиас Value).
func (r *ResponseResult) value(path string) gjson.Result {
	if v := gjson.GetBytes(r.raw, "value."+path); v.Exists() {
		return v
	}
	return gjson.GetBytes(r.raw, "Value."+path)
}

// Basket извлекает корзину из value.data.basket.
func (r *ResponseResult) Basket() (*Basket, bool) {
	v := r.value("data.basket")
	if !v.Exists() {
		v = r.value("Data.basket")
	}
	if !v.IsObject() {
		return nil, false
	}

	var basket Basket
	if err := json.Unmarshal([]byte(v.Raw), &basket); err != nil {
		return nil, false
	}
	return &basket, true
}

// BasketInfo извлекает краткую информацию о корзине (ответ добавления товара).
func (r *ResponseResult) BasketInfo() (*BasketInfo, bool) {
	v := r.value("basketInfo")
	if !v.Exists() {
		v = r.value("basketShortInfo")
	}
	if !v.IsObject() {
		return nil, false
	}

	var info BasketInfo
	if err := json.Unmarshal([]byte(v.Raw), &info); err != nil {
		return nil, false
	}
	return &info, true
}

// Variant извлекает выбранную номенклатуру из карточки товара.
func (r *ResponseResult) Variant() (*Variant, bool) {
	v := r.value("data.selectedNomenclature")
	if !v.Exists() {
		v = r.value("Data.selectedNomenclature")
	}
	if !v.IsObject() {
		return nil, false
	}

	var variant Variant
	if err := json.Unmarshal([]byte(v.Raw), &variant); err != nil {
		return nil, false
	}
	return &variant, true
}

// OrderIDs извлекает идентификаторы заказов из списка заказов аккаунта.
func (r *ResponseResult) OrderIDs() ([]string, bool) {
	v := r.value("data.orders")
	if !v.Exists() {
		v = r.value("Data.orders")
	}
	if !v.IsArray() {
		return nil, false
	}

	var ids []string
	v.ForEach(func(_, order gjson.Result) bool {
		if id := order.Get("orderId"); id.Exists() {
			ids = append(ids, id.String())
		}
		return true
	})
	return ids, true
}

// OrderURL извлекает ссылку подтверждения из ответа оформления заказа.
func (r *ResponseResult) OrderURL() (string, bool) {
	v := r.value("url")
	if v.Type != gjson.String {
		return "", false
	}
	return v.String(), true
}

// Basket — состояние корзины с выбранной доставкой и оплатой.
type Basket struct {
	PaymentType          PaymentType   `json:"paymentType"`
	DeliveryWays         []DeliveryWay `json:"deliveryWays"`
	DeliveryWay          string        `json:"deliveryWay"`
	DeliveryIntervalText string        `json:"deliveryIntervalTxt"`
	DeliveryPoint        DeliveryPoint `json:"deliveryPoint"`
	OrderItems           []uint64      `json:"includeInOrder"`
	TotalPrice           uint64        `json:"totalPriceToPay"`
}

// PaymentType — выбранный способ оплаты.
type PaymentType struct {
	ID   string `json:"id"`
	Card string `json:"bankCardId"`
}

// BasketInfo — краткая информация о корзине.
type BasketInfo struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Quantity        uint64 `json:"basketQuantity"`
	EventsCount     uint64 `json:"eventsCount"`
}

// ProductCard — карточка товара.
type ProductCard struct {
	Name string `json:"goodsName"`
}

// DeliveryWay — способ доставки с календарями отгрузки.
type DeliveryWay struct {
	Code      string     `json:"code"`
	Calendars []Calendar `json:"calendars"`
}

// Calendar — календарь отгрузки: склады и интервал.
type Calendar struct {
	StoreIDs         []uint64         `json:"storeIds"`
	ShippingInterval ShippingInterval `json:"shippingInterval"`
}

// ShippingInterval — интервал доставки.
type ShippingInterval struct {
	ID           uint64 `json:"intervalId"`
	DeliveryDate string `json:"deliveryDateShort"`
}

// DeliveryPoint — пункт доставки.
type DeliveryPoint struct {
	ID      uint64 `json:"kladrId"`
	Address string `json:"address"`
}

// Variant — вариант товара (цвет/модель) с размерной сеткой.
type Variant struct {
	SoldOut bool            `json:"isSoldOut"`
	ID      uint64          `json:"cod1S"`
	Name    string          `json:"rusName"`
	Sizes   map[string]Size `json:"sizes"`
}

// Size — размер варианта товара.
type Size struct {
	ID        uint64 `json:"characteristicId"`
	Name      string `json:"sizeName"`
	Price     uint64 `json:"price"`
	SalePrice uint64 `json:"priceWithSale"`
	Quantity  uint64 `json:"quantity"`
	SoldOut   bool   `json:"isSoldOut"`
}
