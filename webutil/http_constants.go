package webutil

const (
	// Header Keys
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentLength      = "Content-Length"
	HeaderAuthorization      = "Authorization"

	// Content Types
	ContentTypeJSONUTF8      = "application/json; charset=utf-8"
	ContentTypeTextPlainUTF8 = "text/plain; charset=utf-8"
	ContentTypeHTMLUTF8      = "text/html; charset=utf-8"
	ContentTypeEPUB          = "application/epub+zip"
	ContentTypePDF           = "application/pdf"
	ContentTypeDOCX          = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)
