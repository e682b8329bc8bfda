package i18n

import (
	apperrors "github.com/louisbranch/roster/internal/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.BrazilianPortuguese

	// Page
	message.SetString(lang, "roster.title", "Gerenciamento de Usuários")
	message.SetString(lang, "roster.heading", "Gerenciamento de Usuários")
	message.SetString(lang, "roster.loading", "Carregando...")
	message.SetString(lang, "roster.empty", "Nenhum usuário ainda.")
	message.SetString(lang, "roster.language", "Idioma")
	message.SetString(lang, "language.en", "English")
	message.SetString(lang, "language.pt-BR", "Português (Brasil)")

	// Roster actions
	message.SetString(lang, "roster.add_new", "Adicionar Novo Usuário")
	message.SetString(lang, "roster.edit", "Editar")
	message.SetString(lang, "roster.delete", "Excluir")
	message.SetString(lang, "roster.email", "E-mail: %s")
	message.SetString(lang, "roster.department", "Departamento: %s")
	message.SetString(lang, "roster.not_available", "N/D")

	// Form
	message.SetString(lang, "form.name", "Nome")
	message.SetString(lang, "form.email", "E-mail")
	message.SetString(lang, "form.department", "Departamento")
	message.SetString(lang, "form.add", "Adicionar Usuário")
	message.SetString(lang, "form.update", "Atualizar Usuário")
	message.SetString(lang, "form.cancel", "Cancelar")

	// Errors
	message.SetString(lang, "error.dismiss", "Dispensar")
	message.SetString(lang, "error.retry", "Tentar novamente")
	message.SetString(lang, "error.csrf_invalid", "Não foi possível verificar a origem da requisição.")
	message.SetString(lang, ErrorKey(apperrors.CodeUsersFetchFailed), "Falha ao buscar usuários!")
	message.SetString(lang, ErrorKey(apperrors.CodeUserAddFailed), "Falha ao adicionar usuário!")
	message.SetString(lang, ErrorKey(apperrors.CodeUserUpdateFailed), "Falha ao atualizar usuário!")
	message.SetString(lang, ErrorKey(apperrors.CodeUserDeleteFailed), "Falha ao excluir usuário!")
	message.SetString(lang, ErrorKey(apperrors.CodeOperationInFlight), "Outra requisição ainda está em andamento.")
	message.SetString(lang, ErrorKey(apperrors.CodeFormNotInCreateMode), "O formulário não está aberto para um novo usuário.")
	message.SetString(lang, ErrorKey(apperrors.CodeNoEditTarget), "Nenhum usuário está sendo editado.")
	message.SetString(lang, ErrorKey(apperrors.CodeUserNotFound), "Usuário não encontrado.")
}
