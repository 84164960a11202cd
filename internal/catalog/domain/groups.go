package domain

// Feature group names used by plan seeding and usage stats.
const (
	GroupImage   = "image"
	GroupData    = "data"
	GroupText    = "text"
	GroupImageAI = "imageai"
)

// Groups maps each feature group to its member keys. The seeder and the
// stats endpoint both derive membership from this table, so a feature
// added here is automatically plan-assignable and counted.
var Groups = map[string][]string{
	GroupImage: {
		"black_and_white",
		"round_image",
		"pixelate_image",
		"blur_image",
		"compress_image",
		"png_to_jpg",
		"tiff_to_jpg",
	},
	GroupData: {
		"xml_to_json",
		"json_to_xml",
		"xml_to_csv",
		"json_to_csv",
		"xls_to_csv",
		"xls_to_json",
		"xls_to_xml",
		"compress_pdf",
	},
	GroupText: {
		"generate_summary",
		"rewrite_text",
		"essay_writer",
		"paragraph_writer",
		"grammar_checker",
		"post_writer",
		"document_code",
	},
	GroupImageAI: {
		"remove_background",
		"edit_background",
		"pick_up_object",
		"cut_out_object",
	},
}

// AllFeatureKeys returns every key across all groups in a stable order.
func AllFeatureKeys() []string {
	var keys []string
	for _, group := range []string{GroupImage, GroupData, GroupText, GroupImageAI} {
		keys = append(keys, Groups[group]...)
	}
	return keys
}
