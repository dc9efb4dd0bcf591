package texts

var english = map[string]string{
	"welcome": "👋 *Welcome to PDF Bot!*\n\n" +
		"🔧 Every tool you need to work with PDFs in one place!\n\n" +
		"✨ *Features:*\n" +
		"• Convert images & documents to PDF\n" +
		"• Merge, split, and organize PDFs\n" +
		"• Compress and optimize PDFs\n" +
		"• Add watermarks & page numbers\n" +
		"• Secure PDFs with passwords\n" +
		"• Extract text and images\n" +
		"• OCR support for scanned documents\n\n" +
		"Choose your language using the buttons below.",
	"help": "📚 *How to Use This Bot:*\n\n" +
		"1️⃣ Select a tool from the menu\n" +
		"2️⃣ Follow the instructions\n" +
		"3️⃣ Send your files\n" +
		"4️⃣ Get your processed PDF!\n\n" +
		"💡 Sending an image or an Office file without picking a tool converts it to PDF right away.\n\n" +
		"*Commands:*\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n" +
		"/language - Change language\n" +
		"/cancel - Cancel current operation\n" +
		"/subscribe - Subscribe to updates\n" +
		"/unsubscribe - Unsubscribe from updates\n\n" +
		"*Support:* {support}",
	"choose_language":     "🌐 Please choose your language:",
	"language_changed":    "✅ Language changed to English!",
	"choose_action":       "📋 Choose a PDF tool:",
	"back":                "🔙 Back",
	"cancel":              "❌ Cancel",
	"operation_cancelled": "❌ Operation cancelled.",
	"nothing_to_cancel":   "ℹ️ There is no operation to cancel.",
	"processing":          "⏳ Processing your request...",
	"queued":              "⏳ Working on it, your result will arrive shortly.",
	"error":               "❌ An error occurred. Please try again.",
	"unsupported":         "❌ This file format is not supported yet.",
	"file_too_large":      "❌ File is too large. Maximum size is {max_size}MB.",
	"download_failed":     "❌ Could not download your file. Please send it again.",
	"invalid_input":       "❌ Invalid input. Please try again.",
	"feature_disabled":    "🚫 This tool is disabled on this bot.",
	"operation_running":   "⏳ Your previous operation is still running. Please wait for it to finish.",
	"rate_limited":        "⏱️ You have reached the limit of {limit} operations per hour. Please try again later.",
	"admin_only":          "⛔ This command is for administrators only.",

	"category_organize": "📑 Organize PDF",
	"category_optimize": "⚡ Optimize PDF",
	"category_convert":  "🔄 Convert PDF",
	"category_edit":     "✏️ Edit PDF",
	"category_security": "🔒 PDF Security",

	"feature_merge":             "🔗 Merge PDFs",
	"feature_split":             "✂️ Split PDF",
	"feature_extract_pages":     "📄 Extract Pages",
	"feature_remove_pages":      "🗑️ Remove Pages",
	"feature_extract_images":    "🖼️ Extract Images",
	"feature_extract_text":      "📝 Extract Text",
	"feature_compress":          "🗜️ Compress PDF",
	"feature_repair":            "🔧 Repair PDF",
	"feature_ocr":               "👁️ OCR PDF",
	"feature_images_to_pdf":     "🖼️ Images to PDF",
	"feature_word_to_pdf":       "📝 Word to PDF",
	"feature_excel_to_pdf":      "📈 Excel to PDF",
	"feature_powerpoint_to_pdf": "📊 PowerPoint to PDF",
	"feature_html_to_pdf":       "🌐 HTML to PDF",
	"feature_pdf_to_jpg":        "🖼️ PDF to JPG",
	"feature_pdf_to_word":       "📝 PDF to Word",
	"feature_rotate":            "🔄 Rotate PDF",
	"feature_add_page_numbers":  "🔢 Add Page Numbers",
	"feature_watermark":         "💧 Add Watermark",
	"feature_unlock":            "🔓 Unlock PDF",
	"feature_protect":           "🔒 Protect PDF",
	"feature_sign":              "✍️ Sign PDF",
	"feature_redact":            "🖊️ Redact PDF",
	"feature_compare":           "🔍 Compare PDFs",
	"feature_crop":              "✂️ Crop PDF",

	"prompt_merge":             "📤 Send me the PDF files to merge.\n\n💡 You can send multiple files one by one, up to {max}.",
	"prompt_split":             "📤 Send me a PDF file to split.\n\n💡 I'll ask you how to split it.",
	"prompt_extract_pages":     "📤 Send me a PDF file to extract pages from.",
	"prompt_remove_pages":      "📤 Send me a PDF file to remove pages from.",
	"prompt_extract_images":    "📤 Send me a PDF file to extract images from.",
	"prompt_extract_text":      "📤 Send me a PDF file to extract text from.",
	"prompt_compress":          "📤 Send me a PDF file to compress.\n\n💡 I'll reduce its size while maintaining quality.",
	"prompt_repair":            "📤 Send me a damaged PDF file to repair.",
	"prompt_ocr":               "📤 Send me a scanned PDF or an image for OCR processing.",
	"prompt_images_to_pdf":     "📸 Send me images to convert to PDF.\n\n💡 Send up to {max} images and I'll combine them into one PDF.",
	"prompt_word_to_pdf":       "📤 Send me a Word document (.doc, .docx, .odt, .rtf).",
	"prompt_excel_to_pdf":      "📤 Send me a spreadsheet (.xls, .xlsx, .ods, .csv).",
	"prompt_powerpoint_to_pdf": "📤 Send me a presentation (.ppt, .pptx, .odp).",
	"prompt_html_to_pdf":       "📤 Send me an HTML file.",
	"prompt_pdf_to_jpg":        "📤 Send me a PDF file to turn into JPG images.",
	"prompt_pdf_to_word":       "📤 Send me a PDF file to convert to Word.",
	"prompt_rotate":            "📤 Send me a PDF file to rotate.",
	"prompt_add_page_numbers":  "📤 Send me a PDF file to number.",
	"prompt_watermark":         "📤 Send me a PDF file, then send a watermark image.",
	"prompt_unlock":            "📤 Send me a password-protected PDF file.",
	"prompt_protect":           "📤 Send me a PDF file to protect with a password.",

	"option_page_spec": "📄 Enter page numbers:\n\n" +
		"*Examples:*\n" +
		"• Single pages: `1,3,5`\n" +
		"• Page ranges: `1-5,8,10-15`\n" +
		"• All pages: `all`",
	"option_split_mode": "✂️ How would you like to split the PDF?\n\n" +
		"*Choose a method:*\n" +
		"1️⃣ Split by page ranges: `1-5,6-10`\n" +
		"2️⃣ Split every N pages: `every 2`\n" +
		"3️⃣ One file per page: `1,3,5`",
	"option_compression_level": "🗜️ Choose compression level:\n\n" +
		"1️⃣ *Low* - Best quality, larger file\n" +
		"2️⃣ *Medium* - Balanced (recommended)\n" +
		"3️⃣ *High* - Smallest file, lower quality\n\n" +
		"Send: 1, 2, or 3",
	"option_angle":        "🔄 Enter rotation angle:\n• 90° (clockwise)\n• 180° (upside down)\n• 270° (counter-clockwise)\n\nJust send: 90, 180, or 270",
	"option_password":     "🔑 Please enter the password:",
	"option_new_password": "🔑 Please enter a new password to protect the PDF ({min} to {max} characters):",

	"invalid_page_spec":         "❌ Invalid page format. Please check the examples and try again.",
	"invalid_split_mode":        "❌ Invalid split format. Use `every 2` or ranges like `1-5,6-10`.",
	"invalid_compression_level": "❌ Please send 1, 2, or 3.",
	"invalid_angle":             "❌ Invalid rotation angle. Please enter: 90, 180, or 270",
	"invalid_password":          "❌ The password cannot be empty or longer than {max} characters.",
	"invalid_new_password":      "❌ The password must be {min} to {max} characters long.",

	"kind_pdf":          "PDF",
	"kind_image":        "image",
	"kind_document":     "Word document",
	"kind_spreadsheet":  "spreadsheet",
	"kind_presentation": "presentation",
	"kind_html":         "HTML file",
	"kind_unknown":      "file",
	"or":                " or ",

	"no_pending_operation": "ℹ️ Pick a tool first.",
	"wrong_kind":           "❌ I need a {expected} here.",
	"too_many_inputs":      "❌ That's the maximum of {max} files. Press the button to continue.",
	"awaiting_option":      "ℹ️ Please answer the question above first, or /cancel.",
	"insufficient_inputs":  "❌ Please send at least {need} file(s) first. You have sent {have}.",
	"missing_option":       "ℹ️ I still need one more answer from you.",

	"inputs_count":         "📥 Files received: *{count}*\n\n✅ Send more or press the button when ready.",
	"images_count":         "📸 Images received: *{count}*\n\n✅ Send more images or press *Create PDF*.",
	"pdfs_count":           "📄 PDFs received: *{count}*\n\n✅ Send more PDFs or press *Merge Now*.",
	"merge_now":            "🔗 Merge Now ({count} files)",
	"create_pdf":           "📄 Create PDF ({count} images)",
	"send_next":            "📥 Got it. Now send the next {expected}.",
	"send_watermark_image": "📸 Now send me the watermark image.",

	"merge_done":         "✅ PDFs merged successfully!\n🔗 Files: {files}\n📄 Total pages: {pages}\n📦 Size: {size}",
	"split_part":         "✂️ Part {part} of {parts} (pages {from}-{to}), {size}",
	"extract_pages_done": "✅ Extracted {pages} page(s)!\n📦 Size: {size}",
	"remove_pages_done":  "✅ Removed {removed} page(s), {remaining} left.\n📦 Size: {size}",
	"image_caption":      "🖼️ Image {index} of {total}",
	"compress_done":      "✅ PDF compressed ({level})!\n📉 Original: {original}\n📦 Compressed: {compressed}\n💰 Saved: {saved}%",
	"compress_no_gain":   "ℹ️ This PDF is already well optimized.\n📦 Size: {original}",
	"repair_done":        "✅ PDF repaired successfully!\n📦 Size: {size}",
	"rotate_done":        "✅ PDF rotated {angle}°!",
	"page_numbers_done":  "✅ Page numbers added!",
	"watermark_done":     "✅ Watermark added to all pages!",
	"unlock_done":        "✅ PDF unlocked successfully!",
	"protect_done":       "✅ PDF protected with password!",
	"images_to_pdf_done": "✅ PDF created successfully!\n🖼️ Images: {images}\n📄 Pages: {pages}\n📦 Size: {size}",
	"convert_done":       "✅ Converted! 📦 Size: {size}",
	"page_caption":       "📄 Page {page} of {total}",
	"text_done":          "✅ Text extracted successfully! ({chars} characters)",
	"ocr_done":           "✅ OCR completed! ({chars} characters)",

	"conversion_failed":  "❌ Processing failed. Please check your file and try again.",
	"password_incorrect": "❌ Incorrect password. Start again with the right one.",
	"no_password_needed": "✅ This PDF is not password-protected!",
	"pdf_damaged":        "❌ This PDF file appears to be damaged and cannot be processed.",
	"no_text_found":      "❌ No text found in this PDF. Try using OCR for scanned documents.",
	"no_images_found":    "❌ No images found in this PDF.",
	"all_pages_removed":  "❌ You can't remove every page of the document.",
	"ocr_unavailable":    "❌ OCR is not available right now.",

	"subscribed":         "🔔 You're now subscribed to updates!",
	"already_subscribed": "✅ You're already subscribed!",
	"unsubscribed":       "🔕 You've been unsubscribed from updates.",
	"not_subscribed":     "ℹ️ You're not subscribed to updates.",
	"coming_soon":        "🔜 This feature is coming soon!\n\nWould you like to be notified when it's available?",
	"notify_me":          "🔔 Notify Me",
	"no_thanks":          "❌ No Thanks",

	"stats": "📊 *Bot Statistics:*\n\n" +
		"👥 Users: {users}\n" +
		"🔔 Subscribers: {subscribers}\n" +
		"📄 Operations today: {today}\n" +
		"📦 Operations total: {total}\n" +
		"❌ Failed: {failed}\n" +
		"⏳ Active sessions: {sessions}",
	"notify_usage": "ℹ️ Usage: /notify <message>",
	"notify_done":  "📣 Sent to {sent} of {total} subscribers.",
}
