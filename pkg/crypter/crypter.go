package crypter

var Instance *SHA384Crypter

func init() {
	Instance = NewSHA384Crypter(CRYPTER_KEY)
}
