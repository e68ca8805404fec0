// Package webhook отправляет уведомления об исходах задач.
//
// Уведомление — один HTTPS POST Discord-совместимого embed-сообщения
// на адрес, заданный настройками. Отправка идёт отдельным клиентом без
// прокси: сервис уведомлений не связан с целевым сайтом. Доставка
// считается успешной только при ответе 204 No Content.
package webhook
