package handler

// User-facing messages.  Clients render them verbatim.
const (
	msgInvalidInput = "اطلاعات وارد شده نامعتبر است"
	msgServerError  = "خطای داخلی سرور، لطفاً دوباره تلاش کنید"
	msgForbidden    = "شما اجازه‌ی انجام این عملیات را ندارید"

	msgListEventsFailed    = "خطا در دریافت رویدادها"
	msgUpcomingFailed      = "خطا در دریافت رویدادهای آینده"
	msgGetEventFailed      = "خطا در دریافت رویداد"
	msgSearchFailed        = "خطا در جستجوی رویدادها"
	msgEventNotFound       = "رویداد پیدا نشد"
	msgCreateEventFailed   = "خطا در ایجاد رویداد"
	msgEventCreated        = "رویداد با موفقیت ایجاد شد"
	msgUnknownClubOrCafe   = "باشگاه یا کافه‌ی انتخاب‌شده وجود ندارد"
	msgNotClubOwner        = "فقط مدیر باشگاه می‌تواند برای آن رویداد ایجاد کند"
	msgClubNotAtCafe       = "این باشگاه در کافه‌ی انتخاب‌شده فعالیت نمی‌کند"
	msgInvalidDistrict     = "منطقه باید بین ۱ تا ۲۲ باشد"
	msgInvalidActiveFilter = "مقدار فیلتر فعال بودن نامعتبر است"

	msgLoginFirst           = "لطفاً ابتدا ثبت‌نام و ورود کنید، سپس می‌توانید در رویداد شرکت کنید."
	msgAlreadyRegistered    = "شما قبلاً در این رویداد ثبت نام کرده‌اید"
	msgEventFull            = "ظرفیت رویداد تکمیل است"
	msgRegistered           = "ثبت نام با موفقیت انجام شد"
	msgRegisterFailed       = "خطا در ثبت نام"
	msgListRegsFailed       = "خطا در دریافت ثبت نام‌ها"
	msgRegistrationNotFound = "ثبت نام پیدا نشد"
	msgRegistrationCanceled = "ثبت نام لغو شد"
	msgCancelFailed         = "خطا در لغو ثبت نام"

	msgCafeNotFound     = "کافه پیدا نشد"
	msgListCafesFailed  = "خطا در دریافت کافه‌ها"
	msgCreateCafeFailed = "خطا در ثبت کافه"
	msgCafeCreated      = "کافه با موفقیت ثبت شد"

	msgClubNotFound      = "باشگاه پیدا نشد"
	msgListClubsFailed   = "خطا در دریافت باشگاه‌ها"
	msgCreateClubFailed  = "خطا در ایجاد باشگاه"
	msgClubCreated       = "باشگاه با موفقیت ایجاد شد"
	msgJoinedClub        = "عضویت در باشگاه با موفقیت انجام شد"
	msgLeftClub          = "عضویت شما در باشگاه لغو شد"
	msgAlreadyMember     = "شما قبلاً عضو این باشگاه هستید"
	msgNotMember         = "شما عضو این باشگاه نیستید"
	msgMembershipFailed  = "خطا در به‌روزرسانی عضویت"
	msgListMembersFailed = "خطا در دریافت اعضای باشگاه"
	msgMemberLogin       = "برای عضویت در باشگاه ابتدا وارد حساب کاربری شوید"

	msgEmailTaken     = "این ایمیل قبلاً ثبت شده است"
	msgUsernameTaken  = "این نام کاربری قبلاً انتخاب شده است"
	msgSignupFailed   = "خطا در ایجاد حساب کاربری"
	msgSignedUp       = "حساب کاربری با موفقیت ایجاد شد"
	msgBadCredentials = "ایمیل یا رمز عبور اشتباه است"
	msgLoggedIn       = "ورود با موفقیت انجام شد"
	msgLoginFailed    = "خطا در ورود"
	msgUserNotFound   = "کاربر پیدا نشد"
	msgProfileFailed  = "خطا در دریافت پروفایل"
)
