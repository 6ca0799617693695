package connector

import "strings"

const (
	placeholderClient = "#@CLIENT_GUID@#"
	placeholderPlayer = "#@SCORM_PLAYER_URL@#"

	// redirectAsset is the only base asset that receives substitution; every
	// other asset is copied byte-for-byte.
	redirectAsset = "redirect.html"
)

// renderRedirect substitutes the known placeholders in the redirect asset.
// Substitution is best-effort literal replacement: placeholders outside the
// known set stay untouched.
func renderRedirect(content []byte, customer, playerURL string) []byte {
	replacer := strings.NewReplacer(
		placeholderClient, customer,
		placeholderPlayer, playerURL,
	)
	return []byte(replacer.Replace(string(content)))
}
