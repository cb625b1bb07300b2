package domain

import "errors"

var (
	ErrSharingRateNotFound = errors.New("sharing rate not found")
	ErrChairmanNotFound    = errors.New("chairman not found")
	ErrNewsItemNotFound    = errors.New("news item not found")
	ErrTickerNotFound      = errors.New("ticker message not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrContactNotFound     = errors.New("contact not found")
)
