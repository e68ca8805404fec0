// Package store — файловая персистентность конфигурации движка.
//
// Аккаунты, прокси и настройки хранятся в JSON-файлах рабочей
// директории (загрузка на старте, сохранение на выходе). Партии
// задач описываются декларативно в tasks.yaml.
package store
