package checks

import "pwacheck/internal/rules"

// Registration order is report order: manifest, entry page, service worker,
// then the auxiliary files.
func init() {
	rules.Register(&ManifestExistsRule{})
	rules.Register(&ManifestValidJSONRule{})
	rules.Register(&ManifestRequiredFieldsRule{})
	rules.Register(&ManifestHasIconsRule{})
	rules.Register(&ManifestIconSizesRule{})
	rules.Register(&ManifestInstallableDisplayRule{})
	rules.Register(&EntryExistsRule{})
	rules.Register(&EntryManifestLinkedRule{})
	rules.Register(&EntryViewportTagRule{})
	rules.Register(&EntryThemeColorTagRule{})
	rules.Register(&EntryServiceWorkerRegisteredRule{})
	rules.Register(&EntryInstallPromptHandlersRule{})
	rules.Register(&ServiceWorkerExistsRule{})
	rules.Register(&ServiceWorkerLifecycleHandlersRule{})
	rules.Register(&IconsSizeSetRule{})
	rules.Register(&FaviconExistsRule{})
	rules.Register(&PlatformConfigExistsRule{})
}
