package mailer

import "fmt"

// Email bodies mirror the Polish copy shown to portal members. Links carry
// the plaintext token; only its hash is ever stored server side.

// VerificationMessage composes the post-registration activation email.
func VerificationMessage(to, baseURL, token string) Message {
	link := fmt.Sprintf("%s/api/users/verify-email/%s", baseURL, token)
	html := fmt.Sprintf(`<h1>Weryfikacja adresu email</h1>
<p>Dziękujemy za rejestrację w Portalu Przewodników Beskidzkich!</p>
<p>Aby aktywować swoje konto, kliknij w poniższy link:</p>
<a href="%s" target="_blank">Weryfikuj adres email</a>
<p>Link jest ważny przez 24 godziny.</p>
<p>Jeśli to nie Ty założyłeś konto, zignoruj tę wiadomość.</p>`, link)
	return Message{
		To:      to,
		Subject: "Portal Harnasi - Weryfikacja adresu email",
		HTML:    html,
	}
}

// ResendVerificationMessage composes the fresh-link email for unverified accounts.
func ResendVerificationMessage(to, baseURL, token string) Message {
	link := fmt.Sprintf("%s/api/users/verify-email/%s", baseURL, token)
	html := fmt.Sprintf(`<h1>Weryfikacja adresu email</h1>
<p>Oto Twój nowy link do weryfikacji adresu email:</p>
<a href="%s" target="_blank">Weryfikuj adres email</a>
<p>Link jest ważny przez 24 godziny.</p>
<p>Jeśli to nie Ty założyłeś konto, zignoruj tę wiadomość.</p>`, link)
	return Message{
		To:      to,
		Subject: "Portal Harnasi - Nowy link weryfikacyjny",
		HTML:    html,
	}
}

// PasswordResetMessage composes the reset-link email.
func PasswordResetMessage(to, baseURL, token string) Message {
	link := fmt.Sprintf("%s/reset-password/%s", baseURL, token)
	html := fmt.Sprintf(`<h1>Resetowanie hasła</h1>
<p>Otrzymujesz tę wiadomość, ponieważ Ty (lub ktoś inny) zażądał zresetowania hasła do konta.</p>
<p>Kliknij poniższy link, aby zresetować hasło:</p>
<a href="%s" target="_blank">Resetuj hasło</a>
<p>Jeśli to nie Ty zażądałeś resetowania hasła, zignoruj tę wiadomość.</p>
<p>Link wygasa po 10 minutach.</p>`, link)
	return Message{
		To:      to,
		Subject: "Portal Harnasi - Resetowanie hasła",
		HTML:    html,
	}
}
