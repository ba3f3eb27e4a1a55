// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки кошелька (двухфазная регистрация)
var (
	// ErrInvalidWalletAddress — адрес не соответствует формату 0x + 40 hex-символов
	ErrInvalidWalletAddress = errors.New("некорректный адрес кошелька")
	// ErrWalletTaken — адрес уже зарегистрирован другим пользователем
	ErrWalletTaken = errors.New("адрес кошелька уже занят")
	// ErrNoPendingWallet — нет ожидающего подтверждения адреса
	ErrNoPendingWallet = errors.New("нет ожидающего подтверждения адреса")
	// ErrNoWallet — у пользователя ещё нет активного кошелька
	ErrNoWallet = errors.New("кошелёк не подключён")
	// ErrWalletChangeLimit — лимит смены кошелька исчерпан (решается только через поддержку)
	ErrWalletChangeLimit = errors.New("лимит смены кошелька исчерпан")
)

// Ошибки пользователей
var (
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки админки
var (
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
)
