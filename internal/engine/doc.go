// Package engine — машина состояний задачи покупки.
//
// Runner ведёт задачу по последовательности шагов
// (Start → Warmup → Process → End, опционально Monitor),
// выполняя ровно один HTTP-обмен за под-шаг:
//   - warmup.go  — проверка сессии, региона и чистоты корзины (A–D)
//   - process.go — наличие товара, корзина, оформление заказа (E–I)
//   - end.go     — исходящее уведомление и мониторинг заказа
//
// Под-шаги нумеруются с нуля и продвигаются ровно на один за
// завершённый обмен; единственный Jump — переход к разбору причины
// отказа оплаты. Каждая ошибка несёт короткую метку уровня ("A",
// "H/URL"), по которой оператор диагностирует сбой без логов.
package engine
