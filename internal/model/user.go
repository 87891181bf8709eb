package model

// User represents an account record as stored in the `user` table.  The
// Username and DniOrRuc columns are unique; both are checked at the service
// layer and enforced by unique indexes so concurrent registrations cannot
// slip a duplicate past the pre-check.  PasswordHashed holds the bcrypt
// digest; the plain password never reaches this layer.
//
// Fields:
//  Username       – unique login name.
//  DniOrRuc       – national id or tax id, 8 to 11 digits, unique.
//  EmailAddress   – contact email.
//  Phone          – contact phone number.
//  Role           – role name used for authorization (e.g. Farmer, Admin).
//  PasswordHashed – bcrypt hash of the password.
type User struct {
	Base
	Username       string // user.username
	DniOrRuc       string // user.dni_or_ruc
	EmailAddress   string // user.email_address
	Phone          string // user.phone
	Role           string // user.role
	PasswordHashed string // user.password_hashed
}
