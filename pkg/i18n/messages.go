package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	ForgotPasswordTitle  = "Forgot Password"
	ForgotPasswordIntro  = "Enter your email address and we will send you a verification code."
	EmailLabel           = "Email"
	SendCode             = "Send verification code"
	CodeSentTitle        = "Check your email"
	CodeSentBody         = "We sent a verification code to your email address."
	ContinueToVerify     = "Enter verification code"
	VerifyTitle          = "Verify Code"
	OTPLabel             = "Verification code"
	Verify               = "Verify"
	ResetPasswordTitle   = "Reset Password"
	NewPasswordLabel     = "New password"
	ConfirmPasswordLabel = "Confirm password"
	ShowPassword         = "Show"
	HidePassword         = "Hide"
	Submit               = "Reset password"
	BackToLogin          = "Back to login"

	ErrEmptyEmail         = "Please enter your email address."
	ErrInvalidEmailFormat = "Please enter a valid email address."
	ErrPasswordMismatch   = "Passwords do not match."
	ErrPasswordTooShort   = "Password must be at least %d characters."
	ErrEmptyOTP           = "Please enter the verification code."
	ErrSessionExpired     = "Your session has expired. Please start the password reset again."
	ErrBusy               = "A request is already in progress."
	ErrSendFailed         = "Failed to send the verification code."
	ErrVerifyFailed       = "Failed to verify the code."
	ErrResetFailed        = "Failed to reset the password."
	ErrConnection         = "Could not connect to the server. Please try again."
	ErrUnexpected         = "Something went wrong. Please try again."

	StrengthWeak   = "Password strength: weak"
	StrengthFair   = "Password strength: fair"
	StrengthStrong = "Password strength: strong"
)

var arabic = map[string]string{
	ForgotPasswordTitle:  "نسيت كلمة المرور",
	ForgotPasswordIntro:  "أدخل بريدك الإلكتروني وسنرسل لك رمز التحقق.",
	EmailLabel:           "البريد الإلكتروني",
	SendCode:             "إرسال رمز التحقق",
	CodeSentTitle:        "تحقق من بريدك الإلكتروني",
	CodeSentBody:         "لقد أرسلنا رمز التحقق إلى بريدك الإلكتروني.",
	ContinueToVerify:     "إدخال رمز التحقق",
	VerifyTitle:          "التحقق من الرمز",
	OTPLabel:             "رمز التحقق",
	Verify:               "تحقق",
	ResetPasswordTitle:   "إعادة تعيين كلمة المرور",
	NewPasswordLabel:     "كلمة المرور الجديدة",
	ConfirmPasswordLabel: "تأكيد كلمة المرور",
	ShowPassword:         "إظهار",
	HidePassword:         "إخفاء",
	Submit:               "إعادة تعيين كلمة المرور",
	BackToLogin:          "العودة إلى تسجيل الدخول",

	ErrEmptyEmail:         "يرجى إدخال البريد الإلكتروني.",
	ErrInvalidEmailFormat: "يرجى إدخال بريد إلكتروني صالح.",
	ErrPasswordMismatch:   "كلمتا المرور غير متطابقتين.",
	ErrPasswordTooShort:   "يجب ألا تقل كلمة المرور عن %d أحرف.",
	ErrEmptyOTP:           "يرجى إدخال رمز التحقق.",
	ErrSessionExpired:     "انتهت صلاحية الجلسة. يرجى إعادة بدء عملية استعادة كلمة المرور.",
	ErrBusy:               "هناك طلب قيد المعالجة بالفعل.",
	ErrSendFailed:         "فشل إرسال رمز التحقق.",
	ErrVerifyFailed:       "فشل التحقق من الرمز.",
	ErrResetFailed:        "فشلت إعادة تعيين كلمة المرور.",
	ErrConnection:         "تعذر الاتصال بالخادم. يرجى المحاولة مرة أخرى.",
	ErrUnexpected:         "حدث خطأ ما. يرجى المحاولة مرة أخرى.",

	StrengthWeak:   "قوة كلمة المرور: ضعيفة",
	StrengthFair:   "قوة كلمة المرور: متوسطة",
	StrengthStrong: "قوة كلمة المرور: قوية",
}

var (
	// Supported lists the catalog's languages; the first is the default.
	Supported = []language.Tag{language.Arabic, language.English}

	messages = newCatalog()
	matcher  = language.NewMatcher(Supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range arabic {
		if err := b.SetString(language.Arabic, key, msg); err != nil {
			panic(err)
		}
		if err := b.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
	return b
}
