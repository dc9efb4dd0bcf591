package texts

// Missing keys fall back to English.
var persian = map[string]string{
	"welcome": "👋 *به ربات PDF خوش آمدید!*\n\n" +
		"🔧 همه ابزارهای مورد نیاز برای کار با PDF در یک مکان!\n\n" +
		"✨ *امکانات:*\n" +
		"• تبدیل تصاویر و اسناد به PDF\n" +
		"• ادغام، تقسیم و سازماندهی PDF\n" +
		"• فشرده‌سازی و بهینه‌سازی PDF\n" +
		"• افزودن واترمارک و شماره صفحه\n" +
		"• امنیت PDF با رمز عبور\n" +
		"• استخراج متن و تصاویر\n" +
		"• پشتیبانی OCR برای اسناد اسکن شده\n\n" +
		"زبان خود را با استفاده از دکمه‌های زیر انتخاب کنید.",
	"help": "📚 *نحوه استفاده:*\n\n" +
		"1️⃣ یک ابزار از منو انتخاب کنید\n" +
		"2️⃣ دستورالعمل‌ها را دنبال کنید\n" +
		"3️⃣ فایل‌های خود را ارسال کنید\n" +
		"4️⃣ PDF پردازش شده را دریافت کنید!\n\n" +
		"*دستورات:*\n" +
		"/start - شروع ربات\n" +
		"/help - نمایش راهنما\n" +
		"/language - تغییر زبان\n" +
		"/cancel - لغو عملیات فعلی\n" +
		"/subscribe - اشتراک در به‌روزرسانی‌ها\n" +
		"/unsubscribe - لغو اشتراک\n\n" +
		"*پشتیبانی:* {support}",
	"choose_language":     "🌐 لطفا زبان خود را انتخاب کنید:",
	"language_changed":    "✅ زبان به فارسی تغییر کرد!",
	"choose_action":       "📋 یک ابزار PDF انتخاب کنید:",
	"back":                "🔙 بازگشت",
	"cancel":              "❌ لغو",
	"operation_cancelled": "❌ عملیات لغو شد.",
	"processing":          "⏳ در حال پردازش...",
	"queued":              "⏳ در حال انجام، نتیجه به زودی ارسال می‌شود.",
	"error":               "❌ خطایی رخ داد. لطفا دوباره تلاش کنید.",
	"unsupported":         "❌ این فرمت فایل هنوز پشتیبانی نمی‌شود.",
	"file_too_large":      "❌ فایل خیلی بزرگ است. حداکثر اندازه {max_size}MB است.",
	"invalid_input":       "❌ ورودی نامعتبر. لطفا دوباره تلاش کنید.",

	"category_organize": "📑 سازماندهی PDF",
	"category_optimize": "⚡ بهینه‌سازی PDF",
	"category_convert":  "🔄 تبدیل PDF",
	"category_edit":     "✏️ ویرایش PDF",
	"category_security": "🔒 امنیت PDF",

	"feature_merge":         "🔗 ادغام PDF",
	"feature_split":         "✂️ تقسیم PDF",
	"feature_compress":      "🗜️ فشرده‌سازی PDF",
	"feature_rotate":        "🔄 چرخش PDF",
	"feature_unlock":        "🔓 باز کردن قفل PDF",
	"feature_protect":       "🔒 محافظت از PDF",
	"feature_images_to_pdf": "🖼️ تصویر به PDF",

	"prompt_images_to_pdf": "📸 تصاویر را برای تبدیل به PDF ارسال کنید.\n\n💡 تا {max} تصویر ارسال کنید و من آنها را در یک PDF ترکیب می‌کنم.",
	"images_count":         "📸 تصاویر دریافت شده: *{count}*\n\n✅ تصاویر بیشتری ارسال کنید یا روی *ساخت PDF* کلیک کنید.",
	"create_pdf":           "📄 ساخت PDF ({count} تصویر)",
	"merge_now":            "🔗 ادغام ({count} فایل)",

	"option_password":     "🔑 لطفا رمز عبور را وارد کنید:",
	"option_new_password": "🔑 یک رمز عبور جدید وارد کنید ({min} تا {max} کاراکتر):",
	"option_angle":        "🔄 زاویه چرخش را وارد کنید: 90، 180 یا 270",

	"subscribed":         "🔔 اشتراک شما فعال شد!",
	"unsubscribed":       "🔕 اشتراک شما لغو شد.",
	"coming_soon":        "🔜 این امکان به زودی اضافه می‌شود!\n\nمایلید هنگام انتشار مطلع شوید؟",
	"notify_me":          "🔔 خبرم کن",
	"no_thanks":          "❌ نه، ممنون",
	"rate_limited":       "⏱️ به سقف {limit} عملیات در ساعت رسیده‌اید. لطفا بعدا تلاش کنید.",
	"password_incorrect": "❌ رمز عبور اشتباه است.",
}
