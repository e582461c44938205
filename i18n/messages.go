package i18n

import "qrhub-admin/dtos"

// Message keys used by the handlers.
const (
	MsgUnauthorized         = "error.unauthorized"
	MsgForbidden            = "error.forbidden"
	MsgSessionRequired      = "error.session_required"
	MsgInvalidCredentials   = "error.invalid_credentials"
	MsgNotFound             = "error.not_found"
	MsgServerError          = "error.server"
	MsgRequestError         = "error.request"
	MsgConflict             = "error.conflict"
	MsgUnexpected           = "error.unexpected"
	MsgRateLimited          = "error.rate_limited"
	MsgInvalidRequest       = "error.invalid_request"
	MsgInvalidID            = "error.invalid_id"
	MsgInvalidPeriod        = "error.invalid_period"
	MsgConfirmationRequired = "error.confirmation_required"
	MsgDownloadUnavailable  = "error.download_unavailable"
	MsgNoActiveJob          = "error.no_active_job"
	MsgJobRunning           = "error.job_running"
	MsgWorkflowReset        = "error.workflow_reset"

	MsgBatchQueued           = "batch.queued"
	MsgBatchDeleted          = "batch.deleted"
	MsgBatchRetried          = "batch.retried"
	MsgDownloadStarted       = "batch.download_started"
	MsgBrandCreated          = "brand.created"
	MsgBrandUpdated          = "brand.updated"
	MsgBrandDeleted          = "brand.deleted"
	MsgProductCreated        = "product.created"
	MsgProductUpdated        = "product.updated"
	MsgProductDeleted        = "product.deleted"
	MsgUserCreated           = "user.created"
	MsgUserUpdated           = "user.updated"
	MsgUserDeleted           = "user.deleted"
	MsgProfileUpdated        = "profile.updated"
	MsgSignedIn              = "auth.signed_in"
	MsgSignedOut             = "auth.signed_out"
	MsgNotificationDismissed = "notification.dismissed"
)

var english = map[string]string{
	MsgUnauthorized:         "You are not authorized to perform this action. Please sign in again.",
	MsgForbidden:            "Admin access required.",
	MsgSessionRequired:      "Your session has expired. Please sign in again.",
	MsgInvalidCredentials:   "Invalid username or password.",
	MsgNotFound:             "The requested resource could not be found.",
	MsgServerError:          "A server error occurred. Please try again later.",
	MsgRequestError:         "A request error occurred. Please check your input and try again.",
	MsgConflict:             "This username already exists.",
	MsgUnexpected:           "An unexpected error occurred.",
	MsgRateLimited:          "Too many requests. Please try again later.",
	MsgInvalidRequest:       "Invalid request body.",
	MsgInvalidID:            "Invalid id.",
	MsgInvalidPeriod:        "Period must be one of 7d, 30d or 90d.",
	MsgConfirmationRequired: "Please confirm the deletion.",
	MsgDownloadUnavailable:  "This batch has no file to download yet.",
	MsgNoActiveJob:          "There is no active generation job.",
	MsgJobRunning:           "The generation job is still running.",
	MsgWorkflowReset:        "The generator was reset. Please try again.",

	MsgBatchQueued:           "Batch queued (job %s). %d QR codes will be generated.",
	MsgBatchDeleted:          "Batch deleted successfully.",
	MsgBatchRetried:          "Batch queued for retry.",
	MsgDownloadStarted:       "Download started.",
	MsgBrandCreated:          "Brand created successfully.",
	MsgBrandUpdated:          "Brand updated successfully.",
	MsgBrandDeleted:          "Brand deleted successfully.",
	MsgProductCreated:        "Product created successfully.",
	MsgProductUpdated:        "Product updated successfully.",
	MsgProductDeleted:        "Product deleted successfully.",
	MsgUserCreated:           "User created successfully.",
	MsgUserUpdated:           "User updated successfully.",
	MsgUserDeleted:           "User deleted successfully.",
	MsgProfileUpdated:        "Profile updated successfully.",
	MsgSignedIn:              "Signed in successfully.",
	MsgSignedOut:             "Signed out.",
	MsgNotificationDismissed: "Notification dismissed.",

	dtos.MsgBatchNameRequired:     "Batch name is required.",
	dtos.MsgBatchItemsRequired:    "Add at least one item.",
	dtos.MsgBatchProductRequired:  "Select a product for every item.",
	dtos.MsgBatchQuantityPositive: "Quantity must be greater than zero.",
	dtos.MsgBrandNameRequired:     "Brand name is required.",
	dtos.MsgProductFieldsRequired: "Brand, model name and category are required.",
	dtos.MsgUsernameRequired:      "Username is required.",
	dtos.MsgPasswordRequired:      "Password is required.",
	dtos.MsgRoleRequired:          "Role is required.",
	dtos.MsgRoleInvalid:           "Role must be super_admin, admin or user.",
	dtos.MsgImageInvalid:          "Image must be a JPEG, PNG, WebP or GIF file.",
	dtos.MsgImageTooLarge:         "Image must not exceed 5MB.",
	dtos.MsgItemNotFound:          "Item not found.",
	dtos.MsgStepIncomplete:        "Complete the current step first.",
}

var arabic = map[string]string{
	MsgUnauthorized:         "غير مصرح لك بتنفيذ هذا الإجراء. يرجى تسجيل الدخول مرة أخرى.",
	MsgForbidden:            "يتطلب صلاحيات المسؤول.",
	MsgSessionRequired:      "انتهت صلاحية الجلسة. يرجى تسجيل الدخول مرة أخرى.",
	MsgInvalidCredentials:   "اسم المستخدم أو كلمة المرور غير صحيحة.",
	MsgNotFound:             "تعذر العثور على المورد المطلوب.",
	MsgServerError:          "حدث خطأ في الخادم. يرجى المحاولة لاحقاً.",
	MsgRequestError:         "حدث خطأ في الطلب. يرجى التحقق من المدخلات والمحاولة مرة أخرى.",
	MsgConflict:             "اسم المستخدم موجود بالفعل.",
	MsgUnexpected:           "حدث خطأ غير متوقع.",
	MsgRateLimited:          "طلبات كثيرة جداً. يرجى المحاولة لاحقاً.",
	MsgInvalidRequest:       "نص الطلب غير صالح.",
	MsgInvalidID:            "معرف غير صالح.",
	MsgInvalidPeriod:        "يجب أن تكون الفترة 7d أو 30d أو 90d.",
	MsgConfirmationRequired: "يرجى تأكيد الحذف.",
	MsgDownloadUnavailable:  "لا يوجد ملف لهذه الدفعة بعد.",
	MsgNoActiveJob:          "لا توجد مهمة توليد نشطة.",
	MsgJobRunning:           "مهمة التوليد لا تزال قيد التشغيل.",
	MsgWorkflowReset:        "تمت إعادة تعيين المولد. يرجى المحاولة مرة أخرى.",

	MsgBatchQueued:           "تمت إضافة الدفعة إلى قائمة الانتظار (المهمة %s). سيتم توليد %d رمز QR.",
	MsgBatchDeleted:          "تم حذف الدفعة بنجاح.",
	MsgBatchRetried:          "تمت إعادة جدولة الدفعة.",
	MsgDownloadStarted:       "بدأ التنزيل.",
	MsgBrandCreated:          "تم إنشاء العلامة التجارية بنجاح.",
	MsgBrandUpdated:          "تم تحديث العلامة التجارية بنجاح.",
	MsgBrandDeleted:          "تم حذف العلامة التجارية بنجاح.",
	MsgProductCreated:        "تم إنشاء المنتج بنجاح.",
	MsgProductUpdated:        "تم تحديث المنتج بنجاح.",
	MsgProductDeleted:        "تم حذف المنتج بنجاح.",
	MsgUserCreated:           "تم إنشاء المستخدم بنجاح.",
	MsgUserUpdated:           "تم تحديث المستخدم بنجاح.",
	MsgUserDeleted:           "تم حذف المستخدم بنجاح.",
	MsgProfileUpdated:        "تم تحديث الملف الشخصي بنجاح.",
	MsgSignedIn:              "تم تسجيل الدخول بنجاح.",
	MsgSignedOut:             "تم تسجيل الخروج.",
	MsgNotificationDismissed: "تم إخفاء الإشعار.",

	dtos.MsgBatchNameRequired:     "اسم الدفعة مطلوب.",
	dtos.MsgBatchItemsRequired:    "أضف عنصراً واحداً على الأقل.",
	dtos.MsgBatchProductRequired:  "اختر منتجاً لكل عنصر.",
	dtos.MsgBatchQuantityPositive: "يجب أن تكون الكمية أكبر من صفر.",
	dtos.MsgBrandNameRequired:     "اسم العلامة التجارية مطلوب.",
	dtos.MsgProductFieldsRequired: "العلامة التجارية واسم الطراز والفئة مطلوبة.",
	dtos.MsgUsernameRequired:      "اسم المستخدم مطلوب.",
	dtos.MsgPasswordRequired:      "كلمة المرور مطلوبة.",
	dtos.MsgRoleRequired:          "الدور مطلوب.",
	dtos.MsgRoleInvalid:           "يجب أن يكون الدور super_admin أو admin أو user.",
	dtos.MsgImageInvalid:          "يجب أن تكون الصورة بصيغة JPEG أو PNG أو WebP أو GIF.",
	dtos.MsgImageTooLarge:         "يجب ألا يتجاوز حجم الصورة 5 ميغابايت.",
	dtos.MsgItemNotFound:          "العنصر غير موجود.",
	dtos.MsgStepIncomplete:        "أكمل الخطوة الحالية أولاً.",
}

var chinese = map[string]string{
	MsgUnauthorized:         "您无权执行此操作，请重新登录。",
	MsgForbidden:            "需要管理员权限。",
	MsgSessionRequired:      "会话已过期，请重新登录。",
	MsgInvalidCredentials:   "用户名或密码错误。",
	MsgNotFound:             "找不到请求的资源。",
	MsgServerError:          "服务器错误，请稍后重试。",
	MsgRequestError:         "请求错误，请检查输入后重试。",
	MsgConflict:             "用户名已存在。",
	MsgUnexpected:           "发生意外错误。",
	MsgRateLimited:          "请求过多，请稍后重试。",
	MsgInvalidRequest:       "请求内容无效。",
	MsgInvalidID:            "无效的 ID。",
	MsgInvalidPeriod:        "时间范围必须是 7d、30d 或 90d。",
	MsgConfirmationRequired: "请确认删除。",
	MsgDownloadUnavailable:  "该批次暂无可下载的文件。",
	MsgNoActiveJob:          "当前没有正在进行的生成任务。",
	MsgJobRunning:           "生成任务仍在运行。",
	MsgWorkflowReset:        "生成器已重置，请重试。",

	MsgBatchQueued:           "批次已加入队列（任务 %s），将生成 %d 个二维码。",
	MsgBatchDeleted:          "批次已删除。",
	MsgBatchRetried:          "批次已重新排队。",
	MsgDownloadStarted:       "开始下载。",
	MsgBrandCreated:          "品牌创建成功。",
	MsgBrandUpdated:          "品牌更新成功。",
	MsgBrandDeleted:          "品牌删除成功。",
	MsgProductCreated:        "产品创建成功。",
	MsgProductUpdated:        "产品更新成功。",
	MsgProductDeleted:        "产品删除成功。",
	MsgUserCreated:           "用户创建成功。",
	MsgUserUpdated:           "用户更新成功。",
	MsgUserDeleted:           "用户删除成功。",
	MsgProfileUpdated:        "个人资料更新成功。",
	MsgSignedIn:              "登录成功。",
	MsgSignedOut:             "已退出登录。",
	MsgNotificationDismissed: "通知已关闭。",

	dtos.MsgBatchNameRequired:     "批次名称为必填项。",
	dtos.MsgBatchItemsRequired:    "请至少添加一个项目。",
	dtos.MsgBatchProductRequired:  "请为每个项目选择产品。",
	dtos.MsgBatchQuantityPositive: "数量必须大于零。",
	dtos.MsgBrandNameRequired:     "品牌名称为必填项。",
	dtos.MsgProductFieldsRequired: "品牌、型号名称和类别为必填项。",
	dtos.MsgUsernameRequired:      "用户名为必填项。",
	dtos.MsgPasswordRequired:      "密码为必填项。",
	dtos.MsgRoleRequired:          "角色为必填项。",
	dtos.MsgRoleInvalid:           "角色必须是 super_admin、admin 或 user。",
	dtos.MsgImageInvalid:          "图片必须是 JPEG、PNG、WebP 或 GIF 格式。",
	dtos.MsgImageTooLarge:         "图片不能超过 5MB。",
	dtos.MsgItemNotFound:          "未找到该项目。",
	dtos.MsgStepIncomplete:        "请先完成当前步骤。",
}
