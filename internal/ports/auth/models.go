package auth

// Claims representa la información extraída del token. El core recibe
// al actor ya autenticado como (UserID, Role); no re-deriva permisos.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
