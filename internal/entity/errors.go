package entity

import "errors"

var (
	// ErrNotFound: a operação não encontrou (ou não pôde alterar) nenhuma linha.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrMissingField: o banco recusou a linha por coluna obrigatória ausente.
	ErrMissingField = errors.New("campo obrigatório ausente")
	// ErrConflict: a linha existe, mas mudou desde a leitura que validou a escrita.
	ErrConflict = errors.New("registro alterado por outra operação")
)
