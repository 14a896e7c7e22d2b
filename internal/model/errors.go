package model

import "errors"

var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrGameOver         = errors.New("game is over")
	ErrPromotionPending = errors.New("promotion pending")
	ErrNoPromotion      = errors.New("no promotion pending")
	ErrNotAuthorized    = errors.New("not authorized for this game")
	ErrMissingKing      = errors.New("each side needs exactly one king")
	ErrInvalidSquare    = errors.New("invalid square")
	ErrAlreadyConnected = errors.New("player already connected")
)
