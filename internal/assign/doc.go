// Package assign распределяет аккаунты и прокси по создаваемым задачам.
//
// Pair — чистая функция без побочных эффектов: читает два списка и
// настроенный режим, возвращает пары "аккаунт + прокси (или без)".
// Движок копирует результат в задачи при создании; дальнейшие правки
// исходных списков на запущенные задачи не влияют.
package assign
