package i18n

// Message keys used by the notification emails.
const (
	KeySubjectNotification   = "email.subject.notification"
	KeySubjectWelcome        = "email.subject.welcome"
	KeySubjectAccountDeleted = "email.subject.account_deleted"
	KeyEventCreate           = "email.welcome.create"
	KeyEventDelete           = "email.welcome.delete"
	KeyEventGeneric          = "email.welcome.generic"
	KeyDirectWelcome         = "email.direct.welcome"
	KeyDirectAccountDeleted  = "email.direct.account_deleted"
)

// LanguageKey returns the key holding the display name of a locale.
func LanguageKey(locale string) string { return "language." + locale }

// builtin holds every message per locale. {0} is replaced by the username.
var builtin = map[string]map[string]string{
	"en": {
		KeySubjectNotification:   "Account notification",
		KeySubjectWelcome:        "Welcome aboard!",
		KeySubjectAccountDeleted: "Your account has been deleted",
		KeyEventCreate:           "Hello, {0}! Your account has been created successfully.",
		KeyEventDelete:           "Hello, {0}! Your account has been deleted.",
		KeyEventGeneric:          "Hello, {0}! There is an update on your account.",
		KeyDirectWelcome:         "Welcome, {0}! We are glad to have you with us.",
		KeyDirectAccountDeleted:  "Goodbye, {0}. Your account has been removed and all your data erased.",
		"language.en":            "English",
		"language.ru":            "Russian",
		"language.es":            "Spanish",
	},
	"ru": {
		KeySubjectNotification:   "Уведомление об аккаунте",
		KeySubjectWelcome:        "Добро пожаловать!",
		KeySubjectAccountDeleted: "Ваш аккаунт удалён",
		KeyEventCreate:           "Здравствуйте, {0}! Ваш аккаунт успешно создан.",
		KeyEventDelete:           "Здравствуйте, {0}! Ваш аккаунт был удалён.",
		KeyEventGeneric:          "Здравствуйте, {0}! В вашем аккаунте есть изменения.",
		KeyDirectWelcome:         "Добро пожаловать, {0}! Мы рады видеть вас.",
		KeyDirectAccountDeleted:  "До свидания, {0}. Ваш аккаунт удалён, а все данные стёрты.",
		"language.en":            "Английский",
		"language.ru":            "Русский",
		"language.es":            "Испанский",
	},
	"es": {
		KeySubjectNotification:   "Notificación de cuenta",
		KeySubjectWelcome:        "¡Bienvenido!",
		KeySubjectAccountDeleted: "Tu cuenta ha sido eliminada",
		KeyEventCreate:           "¡Hola, {0}! Tu cuenta se ha creado correctamente.",
		KeyEventDelete:           "¡Hola, {0}! Tu cuenta ha sido eliminada.",
		KeyEventGeneric:          "¡Hola, {0}! Hay novedades en tu cuenta.",
		KeyDirectWelcome:         "¡Bienvenido, {0}! Nos alegra tenerte con nosotros.",
		KeyDirectAccountDeleted:  "Adiós, {0}. Tu cuenta ha sido eliminada junto con todos tus datos.",
		"language.en":            "Inglés",
		"language.ru":            "Ruso",
		"language.es":            "Español",
	},
}
