// Package transport — HTTP-слой задач.
//
// Включает:
//   - client.go — per-task клиент с прокси, cookie jar и браузерным
//     профилем заголовков
//   - errors.go — классификация сбоев: таймаут, ошибка соединения,
//     бан антибот-защиты (Variti, DDOS-Guard)
//   - retry.go  — политика повторов: баны повторяются ограниченное
//     число раз, остальные ошибки отдаются оператору
//
// Каждая задача эксклюзивно владеет одним клиентом и его cookie jar
// на всё время жизни; клиенты между задачами не разделяются.
package transport
