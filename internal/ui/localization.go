package ui

import "fmt"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeySearching          = "searching"
	KeyFoundDevice        = "found_device"
	KeyManualDevice       = "manual_device"
	KeyDeviceNotFound     = "device_not_found"
	KeyNetworkUnavailable = "network_unavailable"
	KeyInvalidIP          = "invalid_ip"
	KeyGettingFileList    = "getting_file_list"
	KeyParsingFiles       = "parsing_files"
	KeyRecordingsFound    = "recordings_found"
	KeyCatalogError       = "catalog_error"
	KeyBeginningDownload  = "beginning_download"
	KeyDownloading        = "downloading"
	KeyDownloadCompleted  = "download_completed"
	KeyAlreadyDownloaded  = "already_downloaded"
	KeyDownloadCancelled  = "download_cancelled"
	KeyDownloadError      = "download_error"
	KeyInvalidFileName    = "invalid_file_name"
	KeyFileNotInCatalog   = "file_not_in_catalog"
	KeyStatusPending      = "status_pending"
	KeyStatusInProgress   = "status_in_progress"
	KeyStatusCompleted    = "status_completed"
	KeyStatusFailed       = "status_failed"
	KeyStatusCancelled    = "status_cancelled"
	KeyDateFormat         = "date_format"
	KeyTimeFormat         = "time_format"
	KeyUnknownDate        = "unknown_date"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown languages are ignored.
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Format returns the localized text for key with args substituted
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "BlackVue Downloader",
		KeySearching:          "Searching for BlackVue... (%d / %d)",
		KeyFoundDevice:        "Found BlackVue at %s",
		KeyManualDevice:       "Using BlackVue at %s",
		KeyDeviceNotFound:     "Unable to find a BlackVue device on this subnet. Please try entering the IP in manually.",
		KeyNetworkUnavailable: "No network connection to search on.",
		KeyInvalidIP:          "IP Address is not valid!",
		KeyGettingFileList:    "Getting File List...",
		KeyParsingFiles:       "Parsing Files...",
		KeyRecordingsFound:    "%d recordings",
		KeyCatalogError:       "An error occured when retrieving the list of videos: ",
		KeyBeginningDownload:  "Beginning download of \"%s\"",
		KeyDownloading:        "Downloading... %s",
		KeyDownloadCompleted:  "Saved \"%s\"",
		KeyAlreadyDownloaded:  "\"%s\" is already downloaded",
		KeyDownloadCancelled:  "Download cancelled",
		KeyDownloadError:      "An error occured when downloading the video: ",
		KeyInvalidFileName:    "Not a recording file name: ",
		KeyFileNotInCatalog:   "\"%s\" is not on the device",
		KeyStatusPending:      "Pending",
		KeyStatusInProgress:   "Downloading",
		KeyStatusCompleted:    "Completed",
		KeyStatusFailed:       "Failed",
		KeyStatusCancelled:    "Cancelled",
		KeyDateFormat:         "01/02/2006",
		KeyTimeFormat:         "3:04 PM",
		KeyUnknownDate:        "unknown",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "BlackVue Загрузчик",
		KeySearching:          "Поиск BlackVue... (%d / %d)",
		KeyFoundDevice:        "BlackVue найден по адресу %s",
		KeyManualDevice:       "Используется BlackVue по адресу %s",
		KeyDeviceNotFound:     "Не удалось найти BlackVue в этой подсети. Попробуйте ввести IP вручную.",
		KeyNetworkUnavailable: "Нет сетевого подключения для поиска.",
		KeyInvalidIP:          "Неверный IP-адрес!",
		KeyGettingFileList:    "Получение списка файлов...",
		KeyParsingFiles:       "Разбор файлов...",
		KeyRecordingsFound:    "Записей: %d",
		KeyCatalogError:       "Ошибка при получении списка видео: ",
		KeyBeginningDownload:  "Начало загрузки \"%s\"",
		KeyDownloading:        "Загрузка... %s",
		KeyDownloadCompleted:  "Сохранено \"%s\"",
		KeyAlreadyDownloaded:  "\"%s\" уже загружен",
		KeyDownloadCancelled:  "Загрузка отменена",
		KeyDownloadError:      "Ошибка при загрузке видео: ",
		KeyInvalidFileName:    "Недопустимое имя файла записи: ",
		KeyFileNotInCatalog:   "\"%s\" нет на устройстве",
		KeyStatusPending:      "Ожидание",
		KeyStatusInProgress:   "Загрузка",
		KeyStatusCompleted:    "Завершено",
		KeyStatusFailed:       "Ошибка",
		KeyStatusCancelled:    "Отменено",
		KeyDateFormat:         "02.01.2006",
		KeyTimeFormat:         "15:04",
		KeyUnknownDate:        "неизвестно",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "BlackVue Downloader",
		KeySearching:          "Procurando BlackVue... (%d / %d)",
		KeyFoundDevice:        "BlackVue encontrado em %s",
		KeyManualDevice:       "Usando BlackVue em %s",
		KeyDeviceNotFound:     "Não foi possível encontrar um BlackVue nesta sub-rede. Tente digitar o IP manualmente.",
		KeyNetworkUnavailable: "Sem conexão de rede para procurar.",
		KeyInvalidIP:          "Endereço IP inválido!",
		KeyGettingFileList:    "Obtendo lista de arquivos...",
		KeyParsingFiles:       "Analisando arquivos...",
		KeyRecordingsFound:    "%d gravações",
		KeyCatalogError:       "Ocorreu um erro ao obter a lista de vídeos: ",
		KeyBeginningDownload:  "Iniciando download de \"%s\"",
		KeyDownloading:        "Baixando... %s",
		KeyDownloadCompleted:  "\"%s\" salvo",
		KeyAlreadyDownloaded:  "\"%s\" já foi baixado",
		KeyDownloadCancelled:  "Download cancelado",
		KeyDownloadError:      "Ocorreu um erro ao baixar o vídeo: ",
		KeyInvalidFileName:    "Nome de arquivo de gravação inválido: ",
		KeyFileNotInCatalog:   "\"%s\" não está no dispositivo",
		KeyStatusPending:      "Pendente",
		KeyStatusInProgress:   "Baixando",
		KeyStatusCompleted:    "Concluído",
		KeyStatusFailed:       "Erro",
		KeyStatusCancelled:    "Cancelado",
		KeyDateFormat:         "02/01/2006",
		KeyTimeFormat:         "15:04",
		KeyUnknownDate:        "desconhecida",
	}
}
